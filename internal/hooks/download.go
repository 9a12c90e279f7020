package hooks

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/learnhub-ng/learnhub/internal/db"
	"github.com/learnhub-ng/learnhub/internal/storage"
)

// CourseDownload gates signed-URL issuance on a completed purchase. The
// returned URL is valid for storage.DownloadTTL; issuance itself is
// read-only.
func CourseDownload(signer *storage.Signer, dbi db.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := userFromBearer(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		courseID := c.Param("id")
		if courseID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course id required"})
			return
		}

		ctx := c.Request.Context()

		var assetKey string
		err = dbi.QueryRow(ctx,
			`SELECT asset_key FROM courses WHERE id = $1`, courseID,
		).Scan(&assetKey)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch course"})
			return
		}
		if assetKey == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "course has no downloadable asset"})
			return
		}

		var purchased bool
		if err := dbi.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND course_id = $2 AND status = 'completed')`,
			userID, courseID,
		).Scan(&purchased); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify purchase"})
			return
		}
		if !purchased {
			c.JSON(http.StatusForbidden, gin.H{"error": "course not purchased"})
			return
		}

		now := time.Now()
		c.JSON(http.StatusOK, gin.H{
			"url":        signer.SignedURL(assetKey, now),
			"expires_in": int(storage.DownloadTTL.Seconds()),
		})
	}
}

// userFromBearer pulls the user id out of the Authorization header.
func userFromBearer(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return "", jwt.ErrTokenMalformed
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
