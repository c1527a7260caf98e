package platform

import (
	"context"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
)

const (
	PlatformYoutube   = "youtube"
	PlatformPinterest = "pinterest"
	PlatformInstagram = "instagram"
	PlatformFacebook  = "facebook"
)

// Token is the result of an OAuth code exchange. RefreshToken and
// ExpiresAt are zero when the platform doesn't hand them out.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Profile is the minimal platform-side identity used to key a
// connected account row.
type Profile struct {
	UserID   string
	Username string
}

type PostRequest struct {
	AccessToken string
	SourceURL   string
	Caption     string
	// TargetID optionally pins the board/page to post to. Empty means
	// the adapter picks the first one the platform returns.
	TargetID string
}

type PostResult struct {
	PostID  string
	PostURL string
}

// Adapter is one platform's client: an auth URL builder, a code
// exchange, and a post operation. Every call is a single best-effort
// attempt with no retries.
type Adapter interface {
	Name() string
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, *Profile, error)
	Post(ctx context.Context, req PostRequest) (*PostResult, error)
}

// Registry maps a platform name to its adapter. It is built once at
// startup and passed to the services that dispatch on platform.
type Registry map[string]Adapter

func NewRegistry(cfg config.Config) Registry {
	return Registry{
		PlatformYoutube:   NewYoutubeAdapter(cfg),
		PlatformPinterest: NewPinterestAdapter(cfg),
		PlatformInstagram: NewInstagramAdapter(cfg),
		PlatformFacebook:  NewFacebookAdapter(cfg),
	}
}

func (r Registry) Get(name string) (Adapter, bool) {
	a, ok := r[name]
	return a, ok
}
