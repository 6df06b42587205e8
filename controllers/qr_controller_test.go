package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRCode(t *testing.T) {
	r := newEngine()
	r.POST("/api/qr", withSession, GenerateQRCode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/qr", strings.NewReader(`{"url":"https://menumagic.example/menu/1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			DataURI string `json:"data_uri"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.Data.DataURI, "data:image/png;base64,"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/qr", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
