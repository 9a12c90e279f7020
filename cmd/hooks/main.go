package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/config"
	"github.com/learnhub-ng/learnhub/internal/db"
	"github.com/learnhub-ng/learnhub/internal/hooks"
	"github.com/learnhub-ng/learnhub/internal/storage"
)

// The hooks server carries the two endpoints that run outside the main API:
// the payout confirmation webhook and purchase-gated download URL issuance.
func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}
	if cfg.HookSecret == "" {
		logrus.Fatal("HOOK_SECRET must be set")
	}
	if cfg.DownloadSecret == "" {
		logrus.Fatal("DOWNLOAD_SECRET must be set")
	}

	db.Init(cfg.DSN())

	r := newRouter(cfg, db.Conn)
	if err := r.Run(":" + cfg.HooksPort); err != nil {
		logrus.Fatalf("hooks server error: %v", err)
	}
}

func newRouter(cfg *config.Config, dbi db.DB) *gin.Engine {
	signer := storage.NewSigner(cfg.DownloadSecret, cfg.DownloadBaseURL)

	r := gin.Default()

	// Browser clients call these directly, so preflight must pass.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Authorization", "Content-Type", hooks.SignatureHeader}
	corsCfg.OptionsResponseStatusCode = http.StatusOK
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "learnhub-hooks"})
	})

	r.POST("/hooks/payout", hooks.PayoutWebhook(cfg.HookSecret))
	r.GET("/hooks/courses/:id/download", hooks.CourseDownload(signer, dbi))

	return r
}
