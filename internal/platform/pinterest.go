package platform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
)

const (
	pinterestAuthURL = "https://www.pinterest.com/oauth/"
	pinterestAPIBase = "https://api.pinterest.com/v5"
)

type PinterestAdapter struct {
	cfg     config.Config
	apiBase string
	client  *http.Client
}

func NewPinterestAdapter(cfg config.Config) *PinterestAdapter {
	return &PinterestAdapter{
		cfg:     cfg,
		apiBase: pinterestAPIBase,
		client:  http.DefaultClient,
	}
}

func (a *PinterestAdapter) Name() string {
	return PlatformPinterest
}

func (a *PinterestAdapter) AuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", a.cfg.PinterestClientID)
	params.Add("redirect_uri", a.cfg.PinterestRedirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "boards:read,pins:read,pins:write,user_accounts:read")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", pinterestAuthURL, params.Encode())
}

type pinterestTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func (a *PinterestAdapter) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(a.cfg.PinterestClientID + ":" + a.cfg.PinterestClientSecret))
}

func (a *PinterestAdapter) exchangeToken(ctx context.Context, form url.Values) (*pinterestTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", a.apiBase+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+a.basicAuth())

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformPinterest, resp.StatusCode, body)
	}

	var token pinterestTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode pinterest token response: %w", err)
	}

	return &token, nil
}

func (a *PinterestAdapter) ExchangeCode(ctx context.Context, code string) (*Token, *Profile, error) {
	if a.cfg.PinterestClientID == "" || a.cfg.PinterestClientSecret == "" {
		err := errors.New("pinterest oauth configuration is incomplete")
		slog.Info(err.Error())
		return nil, nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", a.cfg.PinterestRedirectURI)

	tokenData, err := a.exchangeToken(ctx, form)
	if err != nil {
		return nil, nil, err
	}

	profile, err := a.userAccount(ctx, tokenData.AccessToken)
	if err != nil {
		return nil, nil, err
	}

	return &Token{
		AccessToken:  tokenData.AccessToken,
		RefreshToken: tokenData.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenData.ExpiresIn) * time.Second),
	}, profile, nil
}

// Refresh uses Pinterest's refresh_token grant; a new refresh token may
// come back alongside the access token.
func (a *PinterestAdapter) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	tokenData, err := a.exchangeToken(ctx, form)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken:  tokenData.AccessToken,
		RefreshToken: tokenData.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tokenData.ExpiresIn) * time.Second),
	}, nil
}

func (a *PinterestAdapter) userAccount(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.apiBase+"/user_account", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformPinterest, resp.StatusCode, body)
	}

	var account struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	userID := account.ID
	if userID == "" {
		userID = account.Username
	}

	return &Profile{UserID: userID, Username: account.Username}, nil
}

func (a *PinterestAdapter) firstBoardID(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.apiBase+"/boards", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", NewUpstreamError(PlatformPinterest, resp.StatusCode, body)
	}

	var boards struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&boards); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if len(boards.Items) == 0 {
		return "", errors.New("no pinterest board found")
	}

	return boards.Items[0].ID, nil
}

// Post creates a pin linking back to the source video. The board comes
// from the request override or falls back to the account's first board.
func (a *PinterestAdapter) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	boardID := req.TargetID
	if boardID == "" {
		var err error
		boardID, err = a.firstBoardID(ctx, req.AccessToken)
		if err != nil {
			return nil, err
		}
	}

	payload := map[string]interface{}{
		"board_id":    boardID,
		"title":       truncate(req.Caption, 100),
		"description": req.Caption,
		"link":        req.SourceURL,
		"media_source": map[string]string{
			"source_type": "video_url",
			"url":         req.SourceURL,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.apiBase+"/pins", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformPinterest, resp.StatusCode, respBody)
	}

	var pin struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &PostResult{
		PostID:  pin.ID,
		PostURL: "https://pinterest.com/pin/" + pin.ID,
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
