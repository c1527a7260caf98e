package job

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/pkg/utils"
)

// Refresher is implemented by adapters whose platform hands out
// renewable tokens. Facebook doesn't, so its adapter sits this out.
type Refresher interface {
	Refresh(ctx context.Context, token string) (*platform.Token, error)
}

type TokenRefreshJob struct {
	cfg      config.Config
	registry platform.Registry
	ca       repository.ConnectedAccountRepository
}

func NewTokenRefreshJob(cfg config.Config, registry platform.Registry, ca repository.ConnectedAccountRepository) *TokenRefreshJob {
	return &TokenRefreshJob{
		cfg:      cfg,
		registry: registry,
		ca:       ca,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	deadline := time.Now().Add(30 * time.Minute)

	accounts, err := c.ca.ListExpiringBefore(ctx, deadline)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.ConnectedAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refreshAccount(ctx, acc); err != nil {
				slog.Info("Unable to refresh token for " + acc.Platform)
			}
		}(acc)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshAccount(ctx context.Context, acc *models.ConnectedAccount) error {
	adapter, ok := c.registry.Get(acc.Platform)
	if !ok {
		return nil
	}

	refresher, ok := adapter.(Refresher)
	if !ok {
		return nil
	}

	// Instagram renews long-lived access tokens in place; the others
	// trade a refresh token.
	stored := acc.RefreshToken
	if acc.Platform == platform.PlatformInstagram {
		stored = acc.AccessToken
	}
	if stored == "" {
		return nil
	}

	token, err := utils.Decrypt(stored, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	refreshed, err := refresher.Refresh(ctx, token)
	if err != nil {
		return err
	}

	update := &models.ConnectedAccount{
		TokenExpiresAt: sql.NullTime{Time: refreshed.ExpiresAt, Valid: !refreshed.ExpiresAt.IsZero()},
	}
	if refreshed.AccessToken != "" {
		update.AccessToken, err = utils.Encrypt([]byte(refreshed.AccessToken), []byte(c.cfg.SecretKey))
		if err != nil {
			return err
		}
	}
	if refreshed.RefreshToken != "" {
		update.RefreshToken, err = utils.Encrypt([]byte(refreshed.RefreshToken), []byte(c.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	return c.ca.SetToken(ctx, acc.UserID, acc.Platform, update)
}
