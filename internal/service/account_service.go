package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/pkg/utils"
)

// state tokens only need to survive one OAuth round trip
const stateTokenDuration = 10 * time.Minute

type AccountService interface {
	GetAuthURL(ctx context.Context, userID int64, platformName string) (string, error)
	HandleCallback(ctx context.Context, platformName, code, state string) (int64, error)
	List(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error)
	Disconnect(ctx context.Context, userID, accountID int64) error
}

type accountService struct {
	cfg      config.Config
	registry platform.Registry
	ca       repository.ConnectedAccountRepository
}

func NewAccountService(cfg config.Config, registry platform.Registry, ca repository.ConnectedAccountRepository) AccountService {
	return &accountService{
		cfg:      cfg,
		registry: registry,
		ca:       ca,
	}
}

// GetAuthURL builds the platform's consent URL. The state parameter
// carries a short-lived token identifying the user, so the callback can
// attribute the code without a session lookup.
func (s *accountService) GetAuthURL(ctx context.Context, userID int64, platformName string) (string, error) {
	adapter, ok := s.registry.Get(platformName)
	if !ok {
		err := fmt.Errorf("unsupported platform: %s", platformName)
		slog.Info(err.Error())
		return "", err
	}

	state, err := utils.GenerateToken(s.cfg.SecretKey, strconv.FormatInt(userID, 10), stateTokenDuration)
	if err != nil {
		return "", err
	}

	return adapter.AuthURL(state), nil
}

func (s *accountService) HandleCallback(ctx context.Context, platformName, code, state string) (int64, error) {
	if code == "" || state == "" {
		err := errors.New("code or state is empty")
		slog.Info(err.Error())
		return 0, err
	}

	claims, err := utils.ValidateToken(s.cfg.SecretKey, state)
	if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	adapter, ok := s.registry.Get(platformName)
	if !ok {
		err = fmt.Errorf("unsupported platform: %s", platformName)
		slog.Info(err.Error())
		return 0, err
	}

	token, profile, err := adapter.ExchangeCode(ctx, code)
	if err != nil {
		return 0, err
	}

	accessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return 0, err
	}

	var refreshToken string
	if token.RefreshToken != "" {
		refreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return 0, err
		}
	}

	account := &models.ConnectedAccount{
		UserID:           userID,
		Platform:         platformName,
		PlatformUserID:   profile.UserID,
		PlatformUsername: profile.Username,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenExpiresAt:   sql.NullTime{Time: token.ExpiresAt, Valid: !token.ExpiresAt.IsZero()},
	}

	_, err = s.ca.Upsert(ctx, account)
	if err != nil {
		return 0, err
	}

	return userID, nil
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	accounts, err := s.ca.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting connected accounts")
	}
	return accounts, nil
}

func (s *accountService) Disconnect(ctx context.Context, userID, accountID int64) error {
	isValid, err := s.ca.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return s.ca.Deactivate(ctx, accountID)
}
