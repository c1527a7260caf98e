package service

import (
	"context"
	"testing"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/transfer"
)

func TestGetSettingsReturnsDefaultsWhenMissing(t *testing.T) {
	svc := NewSettingsService(&mockSettingsRepo{})

	settings, err := svc.GetSettingsInfo(context.Background(), 4)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.UserID != 4 {
		t.Errorf("user id %d, want 4", settings.UserID)
	}
	if settings.PinterestBoardID != "" || settings.FacebookPageID != "" {
		t.Error("defaults should leave overrides empty")
	}
}

func TestUpdateSettingsUpserts(t *testing.T) {
	repo := &mockSettingsRepo{}
	svc := NewSettingsService(repo)

	err := svc.UpdateSettings(context.Background(), 4, &transfer.SettingsUpdate{
		PinterestBoardID: "board-1",
		FacebookPageID:   "page-2",
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}

	if repo.upserted == nil {
		t.Fatal("nothing upserted")
	}
	want := models.Settings{UserID: 4, PinterestBoardID: "board-1", FacebookPageID: "page-2"}
	if *repo.upserted != want {
		t.Errorf("upserted %+v, want %+v", *repo.upserted, want)
	}
}
