// internal/services/shuttle_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/models"
)

type ShuttleService struct {
	db *gorm.DB
}

func NewShuttleService(db *gorm.DB) *ShuttleService {
	return &ShuttleService{db: db}
}

// ListShuttles returns all published shuttles ordered by tape-out date,
// soonest first.
func (s *ShuttleService) ListShuttles() ([]models.Shuttle, error) {
	var shuttles []models.Shuttle
	if err := s.db.Order("tape_out_date asc").Find(&shuttles).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch shuttles: %w", err)
	}
	return shuttles, nil
}

func (s *ShuttleService) GetShuttle(id uuid.UUID) (*models.Shuttle, error) {
	var shuttle models.Shuttle
	if err := s.db.First(&shuttle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "shuttle"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &shuttle, nil
}

// GetShuttleForUser returns a shuttle together with the caller's
// existing application against it, if any.
func (s *ShuttleService) GetShuttleForUser(id uuid.UUID, sess models.Session) (*models.Shuttle, *models.Application, error) {
	shuttle, err := s.GetShuttle(id)
	if err != nil {
		return nil, nil, err
	}

	var application models.Application
	err = s.db.Where("user_id = ? AND shuttle_id = ?", sess.UserID, id).
		Order("created_at DESC").
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shuttle, nil, nil
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	return shuttle, &application, nil
}
