package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/learnhub-ng/learnhub/internal/config"
	"github.com/learnhub-ng/learnhub/internal/hooks"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return newRouter(&config.Config{
		HookSecret:      "hook-secret",
		DownloadSecret:  "download-secret",
		DownloadBaseURL: "https://cdn.learnhub.dev/assets",
	}, nil)
}

func TestPreflightReturns200(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/hooks/payout", nil)
	req.Header.Set("Origin", "https://app.learnhub.dev")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", hooks.SignatureHeader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), hooks.SignatureHeader)
}

func TestHealthz(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "learnhub-hooks")
}
