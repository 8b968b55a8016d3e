package services

import (
	"database/sql"

	"github.com/rskdev/pettycash-be/internal/models"
)

// AvatarServiceProvider defines the interface for avatar services.
type AvatarServiceProvider interface {
	ListAvatars() ([]models.Avatar, error)
}

// AvatarService serves the read-only avatar catalog.
type AvatarService struct {
	db *sql.DB
}

// NewAvatarService creates a new AvatarService.
func NewAvatarService(db *sql.DB) *AvatarService {
	return &AvatarService{db: db}
}

// ListAvatars returns every avatar in the catalog.
func (s *AvatarService) ListAvatars() ([]models.Avatar, error) {
	rows, err := s.db.Query("SELECT id, name, image_url FROM avatars ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var avatars []models.Avatar
	for rows.Next() {
		var a models.Avatar
		if err := rows.Scan(&a.ID, &a.Name, &a.ImageURL); err != nil {
			return nil, err
		}
		avatars = append(avatars, a)
	}
	return avatars, rows.Err()
}
