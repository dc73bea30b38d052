package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"solve_litigation_go/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := logger.Log
	logger.Log = &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	defer func() { logger.Log = previous }()

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/ok", okHandler)
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.FilterMessage("request").All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, "/ok", entries[0].ContextMap()["uri"])
		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	}
}
