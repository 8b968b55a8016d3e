package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAlwaysOK(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/system/health", NewSystemHandler().Health)

	w := doRequest(r, http.MethodGet, "/system/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Contains(t, got, "uptimeSeconds")
	assert.Contains(t, got, "cpuPercent")
	assert.Contains(t, got, "memPercent")
}
