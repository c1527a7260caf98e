package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	config "github.com/crosscast/crosscast-api/configs"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const googleAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"

// YoutubeAdapter connects YouTube channels. YouTube is the source
// platform of every automation rule, so Post is unsupported.
type YoutubeAdapter struct {
	cfg config.Config
}

func NewYoutubeAdapter(cfg config.Config) *YoutubeAdapter {
	return &YoutubeAdapter{cfg: cfg}
}

func (a *YoutubeAdapter) Name() string {
	return PlatformYoutube
}

func (a *YoutubeAdapter) AuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", a.cfg.GoogleClientID)
	params.Add("redirect_uri", a.cfg.YoutubeRedirectURI)
	params.Add("response_type", "code")
	params.Add("scope", "https://www.googleapis.com/auth/youtube.readonly")
	params.Add("state", state)
	params.Add("access_type", "offline")
	params.Add("prompt", "consent")

	return fmt.Sprintf("%s?%s", googleAuthURL, params.Encode())
}

func (a *YoutubeAdapter) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.cfg.GoogleClientID,
		ClientSecret: a.cfg.GoogleClientSecret,
		RedirectURL:  a.cfg.YoutubeRedirectURI,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
		Endpoint:     google.Endpoint,
	}
}

func (a *YoutubeAdapter) ExchangeCode(ctx context.Context, code string) (*Token, *Profile, error) {
	conf := a.oauth2Config()
	if conf.ClientID == "" || conf.ClientSecret == "" || conf.RedirectURL == "" {
		err := errors.New("youtube oauth configuration is incomplete")
		slog.Info(err.Error())
		return nil, nil, err
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, fmt.Errorf("youtube token exchange failed: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, err
	}

	channels, err := service.Channels.List([]string{"snippet"}).Mine(true).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, fmt.Errorf("error fetching youtube channel: %w", err)
	}

	// Nothing to key the account row on without a channel.
	if len(channels.Items) == 0 {
		err = errors.New("no youtube channel found for this account")
		slog.Info(err.Error())
		return nil, nil, err
	}
	channel := channels.Items[0]

	return &Token{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.Expiry,
		}, &Profile{
			UserID:   channel.Id,
			Username: channel.Snippet.Title,
		}, nil
}

func (a *YoutubeAdapter) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	return nil, fmt.Errorf("youtube: %w", ErrPostingUnsupported)
}

// Refresh trades the stored refresh token for a fresh access token.
func (a *YoutubeAdapter) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	conf := a.oauth2Config()
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := tokenSource.Token()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// Video is the source metadata an automation execution needs, plus the
// extra fields the rule-builder UI shows.
type Video struct {
	VideoID      string   `json:"video_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Thumbnail    string   `json:"thumbnail"`
	Duration     string   `json:"duration"`
	ChannelTitle string   `json:"channel_title"`
	PublishedAt  string   `json:"published_at"`
	Tags         []string `json:"tags"`
	ViewCount    uint64   `json:"view_count"`
	URL          string   `json:"url"`
}

// VideoClient reads public video metadata with an API key, no user
// token involved.
type VideoClient struct {
	apiKey string
	opts   []option.ClientOption
}

func NewVideoClient(cfg config.Config) *VideoClient {
	return &VideoClient{apiKey: cfg.YoutubeAPIKey}
}

func (c *VideoClient) service(ctx context.Context) (*youtube.Service, error) {
	if c.apiKey == "" {
		return nil, errors.New("youtube api key not configured")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	return youtube.NewService(ctx, opts...)
}

func (c *VideoClient) FetchVideo(ctx context.Context, videoID string) (*Video, error) {
	service, err := c.service(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	resp, err := service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).Id(videoID).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("youtube api error: %w", err)
	}

	if len(resp.Items) == 0 {
		return nil, errors.New("video not found")
	}
	item := resp.Items[0]

	video := &Video{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
		Tags:         item.Snippet.Tags,
		URL:          WatchURL(videoID),
	}
	if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
		video.Thumbnail = item.Snippet.Thumbnails.High.Url
	}
	if item.ContentDetails != nil {
		video.Duration = item.ContentDetails.Duration
	}
	if item.Statistics != nil {
		video.ViewCount = item.Statistics.ViewCount
	}

	return video, nil
}

func (c *VideoClient) Search(ctx context.Context, query string, maxResults int64) ([]*Video, error) {
	service, err := c.service(ctx)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = 10
	}

	resp, err := service.Search.List([]string{"snippet"}).Q(query).Type("video").MaxResults(maxResults).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("youtube api error: %w", err)
	}

	var videos []*Video
	for _, item := range resp.Items {
		video := &Video{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			URL:          WatchURL(item.Id.VideoId),
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			video.Thumbnail = item.Snippet.Thumbnails.High.Url
		}
		videos = append(videos, video)
	}

	return videos, nil
}

var (
	videoIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)([^&\n?#]+)`)
	bareIDPattern  = regexp.MustCompile(`^[\w-]{11}$`)
)

// ExtractVideoID pulls the video id out of watch, youtu.be and shorts
// URLs. A bare id passes through unchanged.
func ExtractVideoID(videoURL string) (string, bool) {
	if m := videoIDPattern.FindStringSubmatch(videoURL); m != nil {
		return m[1], true
	}
	if bareIDPattern.MatchString(videoURL) {
		return videoURL, true
	}
	return "", false
}

func WatchURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}
