package service

import (
	"context"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/internal/transfer"
)

type SettingsService interface {
	GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, su *transfer.SettingsUpdate) error
}

type settingsService struct {
	sr repository.SettingsRepository
}

func NewSettingsService(sr repository.SettingsRepository) SettingsService {
	return &settingsService{
		sr: sr,
	}
}

// GetSettingsInfo returns zero-value settings for a user who never
// saved any, so the dashboard always has something to render.
func (s *settingsService) GetSettingsInfo(ctx context.Context, userID int64) (*models.Settings, error) {
	settings, isExist, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		return &models.Settings{UserID: userID}, nil
	}

	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, userID int64, su *transfer.SettingsUpdate) error {
	settings := models.Settings{
		UserID:           userID,
		PinterestBoardID: su.PinterestBoardID,
		FacebookPageID:   su.FacebookPageID,
	}

	return s.sr.Upsert(ctx, &settings)
}
