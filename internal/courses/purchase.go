package courses

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/learnhub-ng/learnhub/internal/alerts"
	"github.com/learnhub-ng/learnhub/internal/cache"
	"github.com/learnhub-ng/learnhub/internal/db"
	"github.com/learnhub-ng/learnhub/internal/notifications"
	"github.com/learnhub-ng/learnhub/internal/wallet"
)

// CommissionPct is the referral commission in percent of the purchase
// amount. Overridden from config at startup.
var CommissionPct = 10

// PaymentURLBase is the mock payment gateway base URL. Overridden from
// config at startup.
var PaymentURLBase string

var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseInit creates a pending purchase and hands back a payment URL.
// Payment itself stays mocked, the gateway integration is out of scope.
func PurchaseInit(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID := c.Param("id")
	if courseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course id required"})
	}

	ctx := c.Request().Context()

	var price int64
	err := db.Conn.QueryRow(ctx,
		`SELECT price FROM courses WHERE id = $1 AND is_published = TRUE`, courseID,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch course"})
	}

	var owned bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = $1 AND course_id = $2 AND status = $3)`,
		uid, courseID, StatusCompleted,
	).Scan(&owned); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not inspect purchases"})
	}
	if owned {
		return c.JSON(http.StatusConflict, echo.Map{"error": "course already purchased"})
	}

	purchaseID := uuid.New().String()
	if _, err := db.Conn.Exec(ctx,
		`INSERT INTO purchases (id, user_id, course_id, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		purchaseID, uid, courseID, price, StatusPending, time.Now(),
	); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create purchase"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase_id": purchaseID,
		"amount":      price,
		"status":      StatusPending,
		"payment_url": paymentURL(purchaseID),
	})
}

func paymentURL(purchaseID string) string {
	base := PaymentURLBase
	if base == "" {
		base = "https://pay.learnhub.dev/mock"
	}
	return strings.TrimRight(base, "/") + "/" + purchaseID
}

// purchaseConfirmation is the outcome of confirming a purchase.
type purchaseConfirmation struct {
	PurchaseID       string
	CourseID         string
	Amount           int64
	ReferrerID       string
	Commission       int64
	AlreadyProcessed bool
}

// confirmPurchase flips a pending purchase to completed and credits the
// referrer's commission in the same transaction. Confirming an already
// completed purchase is a no-op, so payment-provider retries are safe.
func confirmPurchase(ctx context.Context, dbi db.DB, userID, purchaseID string) (*purchaseConfirmation, error) {
	tx, err := dbi.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		courseID string
		amount   int64
		status   string
	)
	err = tx.QueryRow(ctx,
		`SELECT course_id, amount, status FROM purchases
		 WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		purchaseID, userID,
	).Scan(&courseID, &amount, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}

	conf := &purchaseConfirmation{PurchaseID: purchaseID, CourseID: courseID, Amount: amount}
	if status == StatusCompleted {
		conf.AlreadyProcessed = true
		return conf, nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE purchases SET status = $1 WHERE id = $2 AND status = $3`,
		StatusCompleted, purchaseID, StatusPending,
	); err != nil {
		return nil, err
	}

	// Referral commission, credited atomically with the purchase.
	var referrerID *string
	if err := tx.QueryRow(ctx,
		`SELECT referred_by FROM users WHERE id = $1`, userID,
	).Scan(&referrerID); err != nil {
		return nil, err
	}

	if referrerID != nil {
		commission := amount * int64(CommissionPct) / 100
		if commission > 0 {
			if _, err := wallet.CreditTx(ctx, tx, *referrerID, commission,
				wallet.PurchaseRef(purchaseID), "referral commission"); err != nil {
				return nil, err
			}
			conf.ReferrerID = *referrerID
			conf.Commission = commission
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return conf, nil
}

// PurchaseConfirm marks a pending purchase completed.
func PurchaseConfirm(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	purchaseID := c.Param("id")
	if purchaseID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "purchase id required"})
	}

	ctx := c.Request().Context()
	conf, err := confirmPurchase(ctx, db.Conn, uid, purchaseID)
	if err != nil {
		if errors.Is(err, ErrPurchaseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm purchase"})
	}

	if conf.AlreadyProcessed {
		return c.JSON(http.StatusOK, echo.Map{
			"purchase_id":       conf.PurchaseID,
			"status":            StatusCompleted,
			"already_processed": true,
		})
	}

	if conf.Commission > 0 {
		cache.Del(ctx, cache.WalletKey(conf.ReferrerID))
	}

	notifyPurchase(c, uid, conf.PurchaseID, conf.CourseID, conf.Amount)
	if conf.Commission > 0 {
		notifyReferral(c, conf.ReferrerID, conf.Commission)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchase_id": conf.PurchaseID,
		"course_id":   conf.CourseID,
		"status":      StatusCompleted,
	})
}

// ListMyPurchases returns the user's purchases for the dashboard.
func ListMyPurchases(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, course_id, amount, status, created_at
		 FROM purchases
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch purchases"})
	}
	defer rows.Close()

	purchases := []Purchase{}
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Amount, &p.Status, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read purchase record"})
		}
		purchases = append(purchases, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"purchases": purchases})
}

func notifyPurchase(c echo.Context, userID, purchaseID, courseID string, amount int64) {
	ctx := c.Request().Context()

	var title string
	if err := db.Conn.QueryRow(ctx, `SELECT title FROM courses WHERE id = $1`, courseID).Scan(&title); err != nil {
		title = "your course"
	}

	if err := notifications.Create(ctx, db.Conn, userID, notifications.TypePurchase,
		"Purchase confirmed", fmt.Sprintf("You now have access to %s", title)); err != nil {
		logrus.Warnf("purchase %s: notification write failed: %v", purchaseID, err)
	}

	var email string
	if err := db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email); err == nil {
		_ = alerts.EnqueuePurchaseReceipt(userID, email, title, amount)
	}
}

func notifyReferral(c echo.Context, referrerID string, commission int64) {
	ctx := c.Request().Context()

	if err := notifications.Create(ctx, db.Conn, referrerID, notifications.TypeReferral,
		"Referral reward", fmt.Sprintf("You earned a commission of %d", commission)); err != nil {
		logrus.Warnf("referral credit: notification write failed: %v", err)
	}

	var email string
	if err := db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, referrerID).Scan(&email); err == nil {
		_ = alerts.EnqueueReferralEarned(referrerID, email, commission)
	}
}
