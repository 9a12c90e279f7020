package main

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/admin"
	"github.com/learnhub-ng/learnhub/internal/alerts"
	"github.com/learnhub-ng/learnhub/internal/auth"
	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/config"
	"github.com/learnhub-ng/learnhub/internal/courses"
	"github.com/learnhub-ng/learnhub/internal/db"
	mware "github.com/learnhub-ng/learnhub/internal/middleware"
	"github.com/learnhub-ng/learnhub/internal/notifications"
	"github.com/learnhub-ng/learnhub/internal/referrals"
	"github.com/learnhub-ng/learnhub/internal/user"
	"github.com/learnhub-ng/learnhub/internal/validate"
	"github.com/learnhub-ng/learnhub/internal/wallet"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	db.Init(cfg.DSN())
	cache.Init(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	alerts.Init()
	defer alerts.Close()

	courses.CommissionPct = cfg.ReferralCommissionPct
	courses.PaymentURLBase = cfg.MockPaymentURL

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "learnhub"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/bootstrap_admin", auth.BootstrapAdmin)

	e.GET("/user/:id/profile", user.GetPublicProfile)
	e.GET("/courses", courses.ListCourses)
	e.GET("/courses/:id", courses.GetCourse)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/user/profile", user.UpdateProfile)

	api.GET("/wallet", wallet.Balance)
	api.GET("/wallet/transactions", wallet.Transactions)
	api.POST("/wallet/withdraw", wallet.RequestWithdrawal)
	api.GET("/wallet/payouts", wallet.ListPayouts)
	api.POST("/wallet/payout_methods", wallet.AddMethod)
	api.GET("/wallet/payout_methods", wallet.ListMethods)
	api.POST("/wallet/payout_methods/:id/default", wallet.SetDefaultMethod)
	api.DELETE("/wallet/payout_methods/:id", wallet.DeleteMethod)

	api.POST("/courses/:id/purchase", courses.PurchaseInit)
	api.POST("/purchases/:id/confirm", courses.PurchaseConfirm)
	api.GET("/purchases/me", courses.ListMyPurchases)
	api.POST("/courses/:id/modules/:module_id/complete", courses.CompleteModule)
	api.GET("/courses/:id/progress", courses.GetProgress)

	api.GET("/notifications", notifications.List)
	api.GET("/notifications/unread_count", notifications.UnreadCount)
	api.POST("/notifications/:id/read", notifications.MarkRead)
	api.POST("/notifications/read_all", notifications.MarkAllRead)

	api.GET("/referrals/me", referrals.Me)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware)
	adminGroup.Use(mware.AdminGuard)

	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)
	adminGroup.GET("/wallets", admin.ListWallets)
	adminGroup.POST("/wallets/:id/credit", wallet.AdminCreditWallet)
	adminGroup.GET("/transactions", wallet.AdminListTransactions)
	adminGroup.GET("/payouts/pending", wallet.AdminListPendingPayouts)
	adminGroup.POST("/payouts/:id/complete", wallet.AdminCompletePayout)
	adminGroup.POST("/payouts/:id/fail", wallet.AdminFailPayout)
	adminGroup.POST("/courses", admin.CreateCourse)
	adminGroup.POST("/courses/:id/modules", admin.AddModule)
	adminGroup.POST("/courses/:id/publish", admin.PublishCourse)
	adminGroup.POST("/notifications/broadcast", notifications.AdminBroadcast)

	// Start server
	if err := e.Start(":" + cfg.Port); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
