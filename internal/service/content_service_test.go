package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/transfer"
)

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

type contentFixture struct {
	pinterest *mockAdapter
	accounts  *mockAccountRepo
	contents  *mockContentRepo
	service   ContentService
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()

	f := &contentFixture{
		pinterest: &mockAdapter{name: platform.PlatformPinterest},
		accounts:  newMockAccountRepo(),
		contents:  &mockContentRepo{},
	}

	registry := platform.Registry{platform.PlatformPinterest: f.pinterest}
	fetcher := &mockVideoFetcher{video: &platform.Video{
		VideoID: "abc12345678",
		Title:   "My Video",
		URL:     testVideoURL,
	}}

	f.service = NewContentService(testConfig(), registry, f.accounts, f.contents, &mockSettingsRepo{}, fetcher)
	return f
}

func TestManualPostHasNoRuleBehindIt(t *testing.T) {
	f := newContentFixture(t)
	f.accounts.accounts[platform.PlatformPinterest] = &models.ConnectedAccount{
		ID:          1,
		UserID:      1,
		Platform:    platform.PlatformPinterest,
		AccessToken: encryptToken(t, testConfig(), "pin-token"),
	}

	results, err := f.service.ManualPost(context.Background(), 1, &transfer.ManualPostRequest{
		VideoURL:        testVideoURL,
		Caption:         "hand written",
		TargetPlatforms: []string{platform.PlatformPinterest},
	})
	if err != nil {
		t.Fatalf("manual post: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 outcome row, got %d", len(results))
	}
	row := results[0]
	if row.AutomationRuleID.Valid {
		t.Error("manual post should not reference an automation rule")
	}
	if row.Caption != "hand written" {
		t.Errorf("caption %q, want the user's", row.Caption)
	}
	if row.Status != models.PostStatusPosted {
		t.Errorf("status %q, want posted", row.Status)
	}
}

func TestManualPostValidation(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.service.ManualPost(context.Background(), 1, &transfer.ManualPostRequest{
		VideoURL: testVideoURL,
	})
	if err == nil {
		t.Error("expected error for missing targets")
	}

	_, err = f.service.ManualPost(context.Background(), 1, &transfer.ManualPostRequest{
		VideoURL:        "definitely not a video",
		TargetPlatforms: []string{platform.PlatformPinterest},
	})
	if err == nil {
		t.Error("expected error for unparseable video url")
	}

	if len(f.contents.rows) != 0 {
		t.Errorf("validation failures should write nothing, got %d rows", len(f.contents.rows))
	}
}

func TestManualPostDefaultsCaptionToTitle(t *testing.T) {
	f := newContentFixture(t)
	f.accounts.accounts[platform.PlatformPinterest] = &models.ConnectedAccount{
		ID:          1,
		UserID:      1,
		Platform:    platform.PlatformPinterest,
		AccessToken: encryptToken(t, testConfig(), "pin-token"),
	}

	results, err := f.service.ManualPost(context.Background(), 1, &transfer.ManualPostRequest{
		VideoURL:        testVideoURL,
		TargetPlatforms: []string{platform.PlatformPinterest},
	})
	if err != nil {
		t.Fatalf("manual post: %v", err)
	}
	if results[0].Caption != "My Video" {
		t.Errorf("caption %q, want video title", results[0].Caption)
	}
}

func TestListByRuleFiltersRows(t *testing.T) {
	f := newContentFixture(t)
	f.contents.rows = []*models.PostedContent{
		{ID: 1, UserID: 1, AutomationRuleID: nullInt64(3), TargetPlatform: platform.PlatformPinterest},
		{ID: 2, UserID: 1, TargetPlatform: platform.PlatformFacebook},
	}

	rows, err := f.service.ListByRule(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("list by rule: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("expected only the rule's row, got %v", rows)
	}
}
