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
	"time"

	config "github.com/crosscast/crosscast-api/configs"
)

const (
	facebookAuthURL   = "https://www.facebook.com/v18.0/dialog/oauth"
	facebookGraphBase = "https://graph.facebook.com/v18.0"
)

type FacebookAdapter struct {
	cfg       config.Config
	graphBase string
	client    *http.Client
}

func NewFacebookAdapter(cfg config.Config) *FacebookAdapter {
	return &FacebookAdapter{
		cfg:       cfg,
		graphBase: facebookGraphBase,
		client:    http.DefaultClient,
	}
}

func (a *FacebookAdapter) Name() string {
	return PlatformFacebook
}

func (a *FacebookAdapter) AuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", a.cfg.FacebookClientID)
	params.Add("redirect_uri", a.cfg.FacebookRedirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "pages_show_list,pages_manage_posts")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", facebookAuthURL, params.Encode())
}

func (a *FacebookAdapter) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return NewUpstreamError(PlatformFacebook, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (a *FacebookAdapter) ExchangeCode(ctx context.Context, code string) (*Token, *Profile, error) {
	if a.cfg.FacebookClientID == "" || a.cfg.FacebookClientSecret == "" {
		err := errors.New("facebook oauth configuration is incomplete")
		slog.Info(err.Error())
		return nil, nil, err
	}

	tokenURL := fmt.Sprintf(
		"%s/oauth/access_token?client_id=%s&redirect_uri=%s&client_secret=%s&code=%s",
		a.graphBase, a.cfg.FacebookClientID, url.QueryEscape(a.cfg.FacebookRedirectURI),
		a.cfg.FacebookClientSecret, code,
	)

	var tokenData struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := a.getJSON(ctx, tokenURL, &tokenData); err != nil {
		return nil, nil, err
	}

	var userData struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	userURL := fmt.Sprintf("%s/me?fields=id,name&access_token=%s", a.graphBase, tokenData.AccessToken)
	if err := a.getJSON(ctx, userURL, &userData); err != nil {
		return nil, nil, err
	}

	// Best-effort long-lived upgrade; keep the short-lived token when
	// the exchange fails.
	accessToken := tokenData.AccessToken
	expiresIn := tokenData.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}

	longLivedURL := fmt.Sprintf(
		"%s/oauth/access_token?grant_type=fb_exchange_token&client_id=%s&client_secret=%s&fb_exchange_token=%s",
		a.graphBase, a.cfg.FacebookClientID, a.cfg.FacebookClientSecret, tokenData.AccessToken,
	)
	var longLived struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := a.getJSON(ctx, longLivedURL, &longLived); err == nil && longLived.AccessToken != "" {
		accessToken = longLived.AccessToken
		expiresIn = longLived.ExpiresIn
	} else if err != nil {
		slog.Info("facebook long-lived token exchange failed, keeping short-lived token")
	}

	return &Token{
			AccessToken: accessToken,
			ExpiresAt:   time.Now().Add(time.Duration(expiresIn) * time.Second),
		}, &Profile{
			UserID:   userData.ID,
			Username: userData.Name,
		}, nil
}

type facebookPage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

func (a *FacebookAdapter) pickPage(ctx context.Context, accessToken, pageID string) (*facebookPage, error) {
	var pages struct {
		Data []facebookPage `json:"data"`
	}
	pagesURL := fmt.Sprintf("%s/me/accounts?access_token=%s", a.graphBase, accessToken)
	if err := a.getJSON(ctx, pagesURL, &pages); err != nil {
		return nil, err
	}

	if len(pages.Data) == 0 {
		return nil, errors.New("no facebook page found")
	}

	if pageID != "" {
		for i := range pages.Data {
			if pages.Data[i].ID == pageID {
				return &pages.Data[i], nil
			}
		}
		return nil, fmt.Errorf("facebook page %s not found for this account", pageID)
	}

	return &pages.Data[0], nil
}

// Post publishes a link post to one of the user's pages using that
// page's own access token.
func (a *FacebookAdapter) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	page, err := a.pickPage(ctx, req.AccessToken, req.TargetID)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"message":      req.Caption,
		"link":         req.SourceURL,
		"access_token": page.AccessToken,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	postURL := fmt.Sprintf("%s/%s/feed", a.graphBase, page.ID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", postURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, NewUpstreamError(PlatformFacebook, resp.StatusCode, respBody)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &PostResult{
		PostID:  result.ID,
		PostURL: "https://facebook.com/" + result.ID,
	}, nil
}
