package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	config "github.com/crosscast/crosscast-api/configs"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// platformGuidelines steer the caption style per target platform.
var platformGuidelines = map[string]string{
	PlatformInstagram: "Keep it engaging with emojis, use 3-5 relevant hashtags",
	PlatformYoutube:   "Include relevant keywords, add timestamps if needed, use 2-3 hashtags",
	PlatformFacebook:  "Conversational tone, ask a question to boost engagement",
	PlatformPinterest: "SEO-friendly, include keywords, descriptive",
}

// CaptionGenerator asks Gemini for a single caption string. It is an
// opaque external collaborator as far as the rule engine is concerned.
type CaptionGenerator struct {
	apiKey  string
	apiBase string
	client  *http.Client
}

func NewCaptionGenerator(cfg config.Config) *CaptionGenerator {
	return &CaptionGenerator{
		apiKey:  cfg.GeminiAPIKey,
		apiBase: geminiAPIBase,
		client:  http.DefaultClient,
	}
}

func buildPrompt(title, description, targetPlatform string) string {
	guidelines, ok := platformGuidelines[targetPlatform]
	if !ok {
		guidelines = "Keep it engaging"
	}

	var b strings.Builder
	b.WriteString("You are a social media expert who creates engaging captions.\n\n")
	fmt.Fprintf(&b, "Create an engaging social media caption for %s based on this content:\n\n", targetPlatform)
	fmt.Fprintf(&b, "Title: %s\nDescription: %s\n\n", title, description)
	fmt.Fprintf(&b, "Guidelines for %s: %s\n\n", targetPlatform, guidelines)
	b.WriteString("Return ONLY the caption text, nothing else.")
	return b.String()
}

func (g *CaptionGenerator) Generate(ctx context.Context, title, description, targetPlatform string) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("gemini api key not configured")
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": buildPrompt(title, description, targetPlatform)},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	reqURL := fmt.Sprintf("%s/models/gemini-pro:generateContent?key=%s", g.apiBase, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", NewUpstreamError("gemini", resp.StatusCode, respBody)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no caption returned from gemini")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}
