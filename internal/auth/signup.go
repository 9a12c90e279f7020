package auth

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub-ng/learnhub/internal/alerts"
	"github.com/learnhub-ng/learnhub/internal/db"
)

type SignupRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	ReferralCode string `json:"referral_code"`
}

type SignupResponse struct {
	Token        string `json:"token"`
	ReferralCode string `json:"referral_code"`
}

// Signup creates the user, their wallet, and their referral code in one
// transaction. An optional referral code links the new account to its
// referrer, who earns commission on this user's purchases.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ctx := c.Request().Context()

	// Resolve the referrer outside the tx so a bogus code fails fast.
	var referrerID *string
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		var id string
		err := db.Conn.QueryRow(ctx,
			`SELECT id FROM users WHERE referral_code = $1 AND is_active = TRUE`, code,
		).Scan(&id)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid referral code"})
		}
		referrerID = &id
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	userID := uuid.New().String()
	referralCode := newReferralCode()

	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role, referral_code, referred_by)
		VALUES ($1, $2, $3, $4, 'student', $5, $6)
		RETURNING id
	`, userID, req.Name, req.Email, string(hashed), referralCode, referrerID).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO wallets (user_id, balance, updated_at)
		VALUES ($1, 0, $2)
	`, userID, time.Now()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wallet creation failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	if err := alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name); err != nil {
		logrus.Warnf("signup: welcome email enqueue failed: %v", err)
	}

	signed, err := issueToken(userID, "student")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed, ReferralCode: referralCode})
}

// newReferralCode mints a short shareable code.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func issueToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
