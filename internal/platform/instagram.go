package platform

import (
	"context"
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
	instagramAuthURL   = "https://www.instagram.com/oauth/authorize"
	instagramAPIBase   = "https://api.instagram.com"
	instagramGraphBase = "https://graph.instagram.com"
)

type InstagramAdapter struct {
	cfg       config.Config
	apiBase   string
	graphBase string
	client    *http.Client
}

func NewInstagramAdapter(cfg config.Config) *InstagramAdapter {
	return &InstagramAdapter{
		cfg:       cfg,
		apiBase:   instagramAPIBase,
		graphBase: instagramGraphBase,
		client:    http.DefaultClient,
	}
}

func (a *InstagramAdapter) Name() string {
	return PlatformInstagram
}

func (a *InstagramAdapter) AuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", a.cfg.InstagramClientID)
	params.Add("redirect_uri", a.cfg.InstagramRedirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "instagram_business_basic")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", instagramAuthURL, params.Encode())
}

func (a *InstagramAdapter) shortLivedToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", a.cfg.InstagramClientID)
	data.Set("client_secret", a.cfg.InstagramClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", a.cfg.InstagramRedirectURI)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, "POST", a.apiBase+"/oauth/access_token", strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", NewUpstreamError(PlatformInstagram, resp.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("failed to decode instagram token response: %w", err)
	}

	return result.AccessToken, nil
}

// longLivedToken upgrades a short-lived token. Callers treat failure as
// non-fatal and keep the short-lived token.
func (a *InstagramAdapter) longLivedToken(ctx context.Context, shortLivedToken string) (string, time.Time, error) {
	reqURL := fmt.Sprintf(
		"%s/access_token?grant_type=ig_exchange_token&client_secret=%s&access_token=%s",
		a.graphBase, a.cfg.InstagramClientSecret, shortLivedToken,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", time.Time{}, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, NewUpstreamError(PlatformInstagram, resp.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, err
	}

	return result.AccessToken, time.Now().Add(time.Duration(result.ExpiresIn) * time.Second), nil
}

func (a *InstagramAdapter) ExchangeCode(ctx context.Context, code string) (*Token, *Profile, error) {
	if a.cfg.InstagramClientID == "" || a.cfg.InstagramClientSecret == "" {
		err := errors.New("instagram oauth configuration is incomplete")
		slog.Info(err.Error())
		return nil, nil, err
	}

	shortLived, err := a.shortLivedToken(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	// The long-lived upgrade is best-effort: fall back to the
	// short-lived token rather than failing the whole exchange.
	accessToken := shortLived
	expiresAt := time.Now().Add(time.Hour)
	if longLived, exp, err := a.longLivedToken(ctx, shortLived); err == nil {
		accessToken = longLived
		expiresAt = exp
	} else {
		slog.Info("instagram long-lived token upgrade failed, keeping short-lived token")
	}

	profile, err := a.userInfo(ctx, accessToken)
	if err != nil {
		return nil, nil, err
	}

	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, profile, nil
}

func (a *InstagramAdapter) userInfo(ctx context.Context, accessToken string) (*Profile, error) {
	reqURL := fmt.Sprintf("%s/me?fields=id,username&access_token=%s", a.graphBase, accessToken)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformInstagram, resp.StatusCode, body)
	}

	var userInfo struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &Profile{UserID: userInfo.ID, Username: userInfo.Username}, nil
}

// Post always fails: Instagram content publishing needs an approved
// business app, which this system does not have.
func (a *InstagramAdapter) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	return nil, errors.New("instagram posting requires additional setup and app review")
}

// Refresh extends a long-lived token before it expires.
func (a *InstagramAdapter) Refresh(ctx context.Context, accessToken string) (*Token, error) {
	reqURL := fmt.Sprintf(
		"%s/refresh_access_token?grant_type=ig_refresh_token&access_token=%s",
		a.graphBase, accessToken,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformInstagram, resp.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &Token{
		AccessToken: result.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(result.ExpiresIn) * time.Second),
	}, nil
}
