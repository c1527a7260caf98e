package platform

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	config "github.com/crosscast/crosscast-api/configs"
)

func newPinterestAdapter(srv *httptest.Server) *PinterestAdapter {
	return &PinterestAdapter{
		cfg: config.Config{
			PinterestClientID:     "client-id",
			PinterestClientSecret: "client-secret",
			PinterestRedirectURI:  "https://example.com/callback",
		},
		apiBase: srv.URL,
		client:  srv.Client(),
	}
}

func TestPinterestPostUsesFirstBoard(t *testing.T) {
	var pinPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/boards":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"items": []map[string]string{{"id": "board-1"}, {"id": "board-2"}},
			})
		case "/pins":
			if err := json.NewDecoder(r.Body).Decode(&pinPayload); err != nil {
				t.Errorf("decode pin payload: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "pin-77"})
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	adapter := newPinterestAdapter(srv)
	result, err := adapter.Post(context.Background(), PostRequest{
		AccessToken: "token",
		SourceURL:   "https://youtube.com/watch?v=abc12345678",
		Caption:     "a craft video",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if pinPayload["board_id"] != "board-1" {
		t.Errorf("board_id %v, want first board", pinPayload["board_id"])
	}
	if result.PostID != "pin-77" {
		t.Errorf("post id %q", result.PostID)
	}
	if result.PostURL != "https://pinterest.com/pin/pin-77" {
		t.Errorf("post url %q", result.PostURL)
	}
}

func TestPinterestPostBoardOverrideSkipsLookup(t *testing.T) {
	var pinPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boards" {
			t.Error("board lookup should be skipped when a board is pinned")
		}
		json.NewDecoder(r.Body).Decode(&pinPayload)
		json.NewEncoder(w).Encode(map[string]string{"id": "pin-1"})
	}))
	defer srv.Close()

	adapter := newPinterestAdapter(srv)
	_, err := adapter.Post(context.Background(), PostRequest{
		AccessToken: "token",
		SourceURL:   "https://youtube.com/watch?v=abc12345678",
		Caption:     "caption",
		TargetID:    "board-9",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if pinPayload["board_id"] != "board-9" {
		t.Errorf("board_id %v, want override", pinPayload["board_id"])
	}
}

func TestPinterestPostTitleTruncated(t *testing.T) {
	var pinPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&pinPayload)
		json.NewEncoder(w).Encode(map[string]string{"id": "pin-1"})
	}))
	defer srv.Close()

	longCaption := strings.Repeat("x", 150)
	adapter := newPinterestAdapter(srv)
	_, err := adapter.Post(context.Background(), PostRequest{
		AccessToken: "token",
		SourceURL:   "https://youtube.com/watch?v=abc12345678",
		Caption:     longCaption,
		TargetID:    "board-1",
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	title, _ := pinPayload["title"].(string)
	if len([]rune(title)) != 100 {
		t.Errorf("title length %d, want 100", len([]rune(title)))
	}
	if pinPayload["description"] != longCaption {
		t.Error("description should carry the full caption")
	}
}

func TestPinterestPostNoBoards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer srv.Close()

	adapter := newPinterestAdapter(srv)
	_, err := adapter.Post(context.Background(), PostRequest{AccessToken: "token"})
	if err == nil || !strings.Contains(err.Error(), "no pinterest board found") {
		t.Errorf("error %v, want no-board message", err)
	}
}

func TestPinterestExchangeCodeSendsBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
			if got := r.Header.Get("Authorization"); got != wantAuth {
				t.Errorf("authorization %q, want basic client credentials", got)
			}
			r.ParseForm()
			if r.PostForm.Get("grant_type") != "authorization_code" {
				t.Errorf("grant_type %q", r.PostForm.Get("grant_type"))
			}
			json.NewEncoder(w).Encode(pinterestTokenResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    3600,
			})
		case "/user_account":
			json.NewEncoder(w).Encode(map[string]string{"id": "u-1", "username": "crafter"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	adapter := newPinterestAdapter(srv)
	token, profile, err := adapter.ExchangeCode(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token.AccessToken != "access" || token.RefreshToken != "refresh" {
		t.Errorf("token %+v", token)
	}
	if token.ExpiresAt.IsZero() {
		t.Error("expiry not set")
	}
	if profile.UserID != "u-1" || profile.Username != "crafter" {
		t.Errorf("profile %+v", profile)
	}
}

func TestPinterestExchangeCodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid code"}`))
	}))
	defer srv.Close()

	adapter := newPinterestAdapter(srv)
	_, _, err := adapter.ExchangeCode(context.Background(), "bad-code")
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error %v, want status in message", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("héllo wörld", 5); got != "héllo" {
		t.Errorf("truncate multibyte = %q", got)
	}
}
