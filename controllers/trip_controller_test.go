package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTripQRCodeRejectsBadID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/trips/:tripId/qrcode")
	c.SetParamNames("tripId")
	c.SetParamValues("not-an-object-id")

	tc := NewTripController(nil)
	require.NoError(t, tc.GetTripQRCode(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTripRejectsBadIDFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/trips/:tripId")
	c.SetParamNames("tripId")
	c.SetParamValues("zzz")

	tc := NewTripController(nil)
	require.NoError(t, tc.GetTrip(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
