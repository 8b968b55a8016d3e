package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskdev/pettycash-be/internal/models"
)

type mockAvatarService struct {
	listFn func() ([]models.Avatar, error)
}

func (m *mockAvatarService) ListAvatars() ([]models.Avatar, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil, fmt.Errorf("not configured")
}

func TestListAvatars(t *testing.T) {
	svc := &mockAvatarService{
		listFn: func() ([]models.Avatar, error) {
			return []models.Avatar{{ID: "av-01", Name: "Fox", ImageURL: "/avatars/fox.png"}}, nil
		},
	}
	r := chi.NewRouter()
	r.Get("/avatars", NewAvatarHandler(svc).List)

	w := doRequest(r, http.MethodGet, "/avatars", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.Avatar
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Fox", got[0].Name)
}

func TestListAvatarsFailure(t *testing.T) {
	svc := &mockAvatarService{
		listFn: func() ([]models.Avatar, error) { return nil, fmt.Errorf("boom") },
	}
	r := chi.NewRouter()
	r.Get("/avatars", NewAvatarHandler(svc).List)

	w := doRequest(r, http.MethodGet, "/avatars", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
