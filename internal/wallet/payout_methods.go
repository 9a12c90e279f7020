package wallet

import (
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhub-ng/learnhub/internal/db"
)

type AddMethodRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=upi bank"`
	UPIID         string `json:"upi_id"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`
	Label         string `json:"label"`
	MakeDefault   bool   `json:"make_default"`
}

var (
	upiRe  = regexp.MustCompile(`^[a-zA-Z0-9._-]{2,256}@[a-zA-Z]{2,64}$`)
	ifscRe = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	acctRe = regexp.MustCompile(`^[0-9]{9,18}$`)
)

// AddMethod registers a payout destination for the authenticated user.
func AddMethod(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	req := new(AddMethodRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	switch req.Kind {
	case MethodUPI:
		if !upiRe.MatchString(req.UPIID) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid UPI handle"})
		}
	case MethodBank:
		if !acctRe.MatchString(req.AccountNumber) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account number"})
		}
		if !ifscRe.MatchString(req.IFSC) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid IFSC code"})
		}
	}

	ctx := c.Request().Context()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	// First method becomes default automatically.
	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM payout_methods WHERE user_id = $1`, uid,
	).Scan(&count); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not inspect payout methods"})
	}
	isDefault := req.MakeDefault || count == 0

	if isDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE payout_methods SET is_default = FALSE WHERE user_id = $1`, uid,
		); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update default method"})
		}
	}

	methodID := uuid.New().String()
	if _, err := tx.Exec(ctx,
		`INSERT INTO payout_methods (id, user_id, kind, upi_id, account_number, ifsc, label, is_default, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		methodID, uid, req.Kind, req.UPIID, req.AccountNumber, req.IFSC, req.Label, isDefault, time.Now(),
	); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save payout method"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save payout method"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"method_id":  methodID,
		"is_default": isDefault,
	})
}

// ListMethods returns the user's payout destinations.
func ListMethods(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(c.Request().Context(),
		`SELECT id, user_id, kind, upi_id, account_number, ifsc, label, is_default, created_at
		 FROM payout_methods
		 WHERE user_id = $1
		 ORDER BY created_at DESC`, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch payout methods"})
	}
	defer rows.Close()

	methods := []PayoutMethod{}
	for rows.Next() {
		var m PayoutMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kind, &m.UPIID, &m.AccountNumber, &m.IFSC, &m.Label, &m.IsDefault, &m.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read payout method"})
		}
		m.AccountNumber = maskAccount(m.AccountNumber)
		methods = append(methods, m)
	}

	return c.JSON(http.StatusOK, echo.Map{"methods": methods})
}

// SetDefaultMethod marks one method as the default, clearing the rest.
func SetDefaultMethod(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	methodID := c.Param("id")
	if methodID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method id required"})
	}

	ctx := c.Request().Context()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start transaction"})
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE payout_methods SET is_default = FALSE WHERE user_id = $1`, uid,
	); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update default method"})
	}

	tag, err := tx.Exec(ctx,
		`UPDATE payout_methods SET is_default = TRUE WHERE id = $1 AND user_id = $2`,
		methodID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update default method"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payout method not found"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update default method"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "default payout method updated"})
}

// DeleteMethod removes a payout destination that has no payouts attached.
func DeleteMethod(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	methodID := c.Param("id")
	if methodID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method id required"})
	}

	ctx := c.Request().Context()

	var inUse bool
	if err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM payouts WHERE method_id = $1)`, methodID,
	).Scan(&inUse); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not inspect payouts"})
	}
	if inUse {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payout method has payouts attached"})
	}

	tag, err := db.Conn.Exec(ctx,
		`DELETE FROM payout_methods WHERE id = $1 AND user_id = $2`, methodID, uid,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete payout method"})
	}
	if tag.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payout method not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "payout method deleted"})
}

func maskAccount(acct string) string {
	if len(acct) <= 4 {
		return acct
	}
	return "****" + acct[len(acct)-4:]
}
