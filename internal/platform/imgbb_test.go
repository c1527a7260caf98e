package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestImgbbUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "user-key" {
			t.Errorf("key %q", r.URL.Query().Get("key"))
		}
		r.ParseForm()
		if r.PostForm.Get("image") != "aW1hZ2U=" {
			t.Errorf("image payload %q", r.PostForm.Get("image"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": ImgbbUpload{
				URL:        "https://i.ibb.co/x/img.png",
				DisplayURL: "https://i.ibb.co/x/img.png",
				DeleteURL:  "https://ibb.co/x/delete",
			},
		})
	}))
	defer srv.Close()

	c := &ImgbbClient{apiBase: srv.URL, client: srv.Client()}
	upload, err := c.Upload(context.Background(), "user-key", "aW1hZ2U=")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if upload.URL != "https://i.ibb.co/x/img.png" {
		t.Errorf("url %q", upload.URL)
	}
}

func TestImgbbUploadFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))
	defer srv.Close()

	c := &ImgbbClient{apiBase: srv.URL, client: srv.Client()}
	if _, err := c.Upload(context.Background(), "user-key", "aW1hZ2U="); err == nil {
		t.Error("expected error when success flag is false")
	}
}

func TestImgbbUploadEmptyKey(t *testing.T) {
	c := NewImgbbClient()
	if _, err := c.Upload(context.Background(), "", "aW1hZ2U="); err == nil {
		t.Error("expected error for empty api key")
	}
}
