package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "github.com/crosscast/crosscast-api/configs"
)

func newFacebookAdapter(srv *httptest.Server) *FacebookAdapter {
	return &FacebookAdapter{
		cfg: config.Config{
			FacebookClientID:     "fb-id",
			FacebookClientSecret: "fb-secret",
			FacebookRedirectURI:  "https://example.com/callback",
		},
		graphBase: srv.URL,
		client:    srv.Client(),
	}
}

func TestFacebookPostUsesFirstPageToken(t *testing.T) {
	var feedPayload map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/accounts":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []facebookPage{
					{ID: "page-1", Name: "First", AccessToken: "page-1-token"},
					{ID: "page-2", Name: "Second", AccessToken: "page-2-token"},
				},
			})
		case "/page-1/feed":
			if err := json.NewDecoder(r.Body).Decode(&feedPayload); err != nil {
				t.Errorf("decode feed payload: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "page-1_99"})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	adapter := newFacebookAdapter(srv)
	result, err := adapter.Post(context.Background(), PostRequest{
		AccessToken: "user-token",
		SourceURL:   "https://youtube.com/watch?v=abc12345678",
		Caption:     "watch this",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if feedPayload["access_token"] != "page-1-token" {
		t.Errorf("feed posted with token %q, want the page's own", feedPayload["access_token"])
	}
	if feedPayload["message"] != "watch this" {
		t.Errorf("message %q", feedPayload["message"])
	}
	if result.PostURL != "https://facebook.com/page-1_99" {
		t.Errorf("post url %q", result.PostURL)
	}
}

func TestFacebookPostPageOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/accounts":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []facebookPage{
					{ID: "page-1", AccessToken: "t1"},
					{ID: "page-2", AccessToken: "t2"},
				},
			})
		case "/page-2/feed":
			json.NewEncoder(w).Encode(map[string]string{"id": "page-2_5"})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	adapter := newFacebookAdapter(srv)
	result, err := adapter.Post(context.Background(), PostRequest{
		AccessToken: "user-token",
		TargetID:    "page-2",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if result.PostID != "page-2_5" {
		t.Errorf("post id %q, want the override page's", result.PostID)
	}

	_, err = adapter.Post(context.Background(), PostRequest{
		AccessToken: "user-token",
		TargetID:    "page-404",
	})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %v, want unknown-page message", err)
	}
}

func TestFacebookPostNoPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	adapter := newFacebookAdapter(srv)
	_, err := adapter.Post(context.Background(), PostRequest{AccessToken: "user-token"})
	if err == nil || !strings.Contains(err.Error(), "no facebook page found") {
		t.Errorf("error %v, want no-page message", err)
	}
}

func TestFacebookExchangeCodeKeepsShortLivedOnUpgradeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/access_token" && r.URL.Path != "/me" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Path == "/me" {
			json.NewEncoder(w).Encode(map[string]string{"id": "fb-7", "name": "Casey"})
			return
		}
		if r.URL.Query().Get("grant_type") == "fb_exchange_token" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"nope"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "short-lived", "expires_in": 1800})
	}))
	defer srv.Close()

	adapter := newFacebookAdapter(srv)
	token, profile, err := adapter.ExchangeCode(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token.AccessToken != "short-lived" {
		t.Errorf("token %q, want short-lived fallback", token.AccessToken)
	}
	if profile.UserID != "fb-7" || profile.Username != "Casey" {
		t.Errorf("profile %+v", profile)
	}
}
