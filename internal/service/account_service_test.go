package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/pkg/utils"
)

func newAccountFixture(adapter *mockAdapter) (AccountService, *mockAccountRepo) {
	accounts := newMockAccountRepo()
	registry := platform.Registry{adapter.name: adapter}
	return NewAccountService(testConfig(), registry, accounts), accounts
}

func validState(t *testing.T, userID string) string {
	t.Helper()
	state, err := utils.GenerateToken(testConfig().SecretKey, userID, time.Minute)
	if err != nil {
		t.Fatalf("generate state: %v", err)
	}
	return state
}

func TestHandleCallbackUpsertsAccount(t *testing.T) {
	adapter := &mockAdapter{
		name:    platform.PlatformPinterest,
		token:   &platform.Token{AccessToken: "fresh-token", RefreshToken: "fresh-refresh", ExpiresAt: time.Now().Add(time.Hour)},
		profile: &platform.Profile{UserID: "pin-123", Username: "crafter"},
	}
	svc, accounts := newAccountFixture(adapter)

	userID, err := svc.HandleCallback(context.Background(), platform.PlatformPinterest, "code", validState(t, "7"))
	if err != nil {
		t.Fatalf("callback: %v", err)
	}
	if userID != 7 {
		t.Errorf("user id %d, want 7", userID)
	}

	if len(accounts.upserted) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(accounts.upserted))
	}
	acc := accounts.upserted[0]
	if acc.PlatformUserID != "pin-123" || acc.PlatformUsername != "crafter" {
		t.Errorf("profile not stored: %+v", acc)
	}
	if acc.AccessToken == "fresh-token" {
		t.Error("access token stored in plaintext")
	}

	decrypted, err := utils.Decrypt(acc.AccessToken, []byte(testConfig().SecretKey))
	if err != nil {
		t.Fatalf("decrypt stored token: %v", err)
	}
	if decrypted != "fresh-token" {
		t.Errorf("stored token decrypts to %q, want fresh-token", decrypted)
	}
	if !acc.TokenExpiresAt.Valid {
		t.Error("token expiry not stored")
	}
}

func TestHandleCallbackExchangeFailureWritesNothing(t *testing.T) {
	adapter := &mockAdapter{
		name:    platform.PlatformFacebook,
		authErr: errors.New("facebook returned status 400"),
	}
	svc, accounts := newAccountFixture(adapter)

	_, err := svc.HandleCallback(context.Background(), platform.PlatformFacebook, "code", validState(t, "1"))
	if err == nil {
		t.Fatal("expected exchange error")
	}
	if len(accounts.upserted) != 0 {
		t.Errorf("expected no account rows, got %d", len(accounts.upserted))
	}
}

func TestHandleCallbackRejectsBadState(t *testing.T) {
	adapter := &mockAdapter{
		name:    platform.PlatformPinterest,
		token:   &platform.Token{AccessToken: "tok"},
		profile: &platform.Profile{UserID: "p"},
	}
	svc, accounts := newAccountFixture(adapter)

	if _, err := svc.HandleCallback(context.Background(), platform.PlatformPinterest, "code", "garbage"); err == nil {
		t.Fatal("expected state validation error")
	}
	if _, err := svc.HandleCallback(context.Background(), platform.PlatformPinterest, "", validState(t, "1")); err == nil {
		t.Fatal("expected error for empty code")
	}
	if len(accounts.upserted) != 0 {
		t.Errorf("expected no account rows, got %d", len(accounts.upserted))
	}
}

func TestHandleCallbackRepeatKeepsOneAccount(t *testing.T) {
	adapter := &mockAdapter{
		name:    platform.PlatformPinterest,
		token:   &platform.Token{AccessToken: "tok-1"},
		profile: &platform.Profile{UserID: "pin-123", Username: "crafter"},
	}
	svc, accounts := newAccountFixture(adapter)

	if _, err := svc.HandleCallback(context.Background(), platform.PlatformPinterest, "code", validState(t, "7")); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	adapter.token = &platform.Token{AccessToken: "tok-2"}
	if _, err := svc.HandleCallback(context.Background(), platform.PlatformPinterest, "code", validState(t, "7")); err != nil {
		t.Fatalf("second callback: %v", err)
	}

	if len(accounts.accounts) != 1 {
		t.Errorf("expected one account per (user, platform), got %d", len(accounts.accounts))
	}
}

func TestGetAuthURLUnknownPlatform(t *testing.T) {
	adapter := &mockAdapter{name: platform.PlatformPinterest}
	svc, _ := newAccountFixture(adapter)

	if _, err := svc.GetAuthURL(context.Background(), 1, "myspace"); err == nil {
		t.Error("expected error for unknown platform")
	}

	authURL, err := svc.GetAuthURL(context.Background(), 1, platform.PlatformPinterest)
	if err != nil {
		t.Fatalf("auth url: %v", err)
	}
	if authURL == "" {
		t.Error("empty auth url")
	}
}

func TestDisconnectChecksOwnership(t *testing.T) {
	adapter := &mockAdapter{name: platform.PlatformPinterest}
	svc, accounts := newAccountFixture(adapter)
	accounts.accounts[platform.PlatformPinterest] = &models.ConnectedAccount{ID: 5, UserID: 1, Platform: platform.PlatformPinterest}

	if err := svc.Disconnect(context.Background(), 2, 5); err == nil {
		t.Error("expected error disconnecting another user's account")
	}
	if err := svc.Disconnect(context.Background(), 1, 5); err != nil {
		t.Errorf("disconnect: %v", err)
	}
	if len(accounts.deactivated) != 1 || accounts.deactivated[0] != 5 {
		t.Errorf("expected soft delete of account 5, got %v", accounts.deactivated)
	}
}
