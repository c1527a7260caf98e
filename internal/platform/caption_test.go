package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newCaptionGenerator(srv *httptest.Server) *CaptionGenerator {
	return &CaptionGenerator{
		apiKey:  "gemini-key",
		apiBase: srv.URL,
		client:  srv.Client(),
	}
}

func TestCaptionGenerate(t *testing.T) {
	var prompt string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-pro:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "gemini-key" {
			t.Errorf("key %q", r.URL.Query().Get("key"))
		}

		var payload struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		prompt = payload.Contents[0].Parts[0].Text

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "  A catchy caption #video  "}},
				}},
			},
		})
	}))
	defer srv.Close()

	g := newCaptionGenerator(srv)
	caption, err := g.Generate(context.Background(), "My Video", "About crafts", PlatformPinterest)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if caption != "A catchy caption #video" {
		t.Errorf("caption %q, want trimmed text", caption)
	}
	if !strings.Contains(prompt, "My Video") || !strings.Contains(prompt, "About crafts") {
		t.Error("prompt missing video metadata")
	}
	if !strings.Contains(prompt, platformGuidelines[PlatformPinterest]) {
		t.Error("prompt missing platform guidelines")
	}
}

func TestCaptionGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer srv.Close()

	g := newCaptionGenerator(srv)
	if _, err := g.Generate(context.Background(), "t", "d", PlatformFacebook); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestCaptionGenerateWithoutKey(t *testing.T) {
	g := &CaptionGenerator{}
	if _, err := g.Generate(context.Background(), "t", "d", PlatformFacebook); err == nil {
		t.Error("expected error without api key")
	}
}
