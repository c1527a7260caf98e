package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const imgbbAPIBase = "https://api.imgbb.com/1"

// ImgbbClient uploads images to the Imgbb hosting API. The key is the
// user's own, read from the service key store per request.
type ImgbbClient struct {
	apiBase string
	client  *http.Client
}

func NewImgbbClient() *ImgbbClient {
	return &ImgbbClient{
		apiBase: imgbbAPIBase,
		client:  http.DefaultClient,
	}
}

type ImgbbUpload struct {
	URL        string `json:"url"`
	DisplayURL string `json:"display_url"`
	DeleteURL  string `json:"delete_url"`
}

func (c *ImgbbClient) Upload(ctx context.Context, apiKey, imageBase64 string) (*ImgbbUpload, error) {
	if apiKey == "" {
		return nil, errors.New("imgbb api key is empty")
	}

	form := url.Values{}
	form.Set("image", imageBase64)

	uploadURL := c.apiBase + "/upload?key=" + url.QueryEscape(apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError("imgbb", resp.StatusCode, body)
	}

	var result struct {
		Success bool        `json:"success"`
		Data    ImgbbUpload `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if !result.Success {
		return nil, errors.New("imgbb upload failed")
	}

	return &result.Data, nil
}
