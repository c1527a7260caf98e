package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/internal/transfer"
	"github.com/crosscast/crosscast-api/pkg/utils"
)

type ApiKeyService interface {
	Create(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]*models.ApiKey, error)
	GetUserID(ctx context.Context, apiKey string) (int64, error)
	RemoveAPIKey(ctx context.Context, userID, keyID int64) error
}

type apiKeyService struct {
	k repository.ApiKeyRepository
}

func NewApiKeyService(k repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{
		k: k,
	}
}

func (s *apiKeyService) Create(ctx context.Context, userID int64) error {

	keys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(keys) > 4 {
		err = errors.New("Only 5 API Keys can be created.")
		slog.Info(err.Error())
		return err
	}

	key, err := utils.GenerateApiKey(32)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("Error generating API key")
	}

	apiKey := &models.ApiKey{
		UserID: userID,
		ApiKey: key,
	}

	_, err = s.k.Create(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("Error saving API key")
	}
	return nil
}

func (s *apiKeyService) GetUserID(ctx context.Context, apiKey string) (int64, error) {
	userID, isExist, err := s.k.GetByKey(ctx, apiKey)
	if err != nil {
		return 0, err
	}

	if !isExist {
		err = errors.New("Key doesn't exist")
		return 0, err
	}

	return *userID, nil
}

func (s *apiKeyService) List(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	apiKeys, err := s.k.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting API keys")
	}
	return apiKeys, nil
}

func (s *apiKeyService) RemoveAPIKey(ctx context.Context, userID, keyID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if keyID == 0 {
		err = errors.New("KeyID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.k.CheckByUserID(ctx, keyID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Key doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.k.Remove(ctx, keyID)
	if err != nil {
		return err
	}
	return nil
}

var supportedServices = map[string]bool{
	models.ServiceImgbb: true,
}

// ServiceKeyService stores the user's own keys for third-party services
// the dashboard calls on their behalf. Keys are encrypted at rest.
type ServiceKeyService interface {
	Save(ctx context.Context, userID int64, sk *transfer.ServiceKeyRequest) error
	List(ctx context.Context, userID int64) ([]*models.ServiceKey, error)
	Remove(ctx context.Context, userID int64, service string) error
}

type serviceKeyService struct {
	cfg config.Config
	sk  repository.ServiceKeyRepository
}

func NewServiceKeyService(cfg config.Config, sk repository.ServiceKeyRepository) ServiceKeyService {
	return &serviceKeyService{
		cfg: cfg,
		sk:  sk,
	}
}

func (s *serviceKeyService) Save(ctx context.Context, userID int64, sk *transfer.ServiceKeyRequest) error {
	if !supportedServices[sk.Service] {
		err := fmt.Errorf("unsupported service: %s", sk.Service)
		slog.Info(err.Error())
		return err
	}

	if sk.ApiKey == "" {
		err := errors.New("API key cannot be empty")
		slog.Info(err.Error())
		return err
	}

	encrypted, err := utils.Encrypt([]byte(sk.ApiKey), []byte(s.cfg.SecretKey))
	if err != nil {
		return fmt.Errorf("Error saving service key")
	}

	_, err = s.sk.Upsert(ctx, &models.ServiceKey{
		UserID:  userID,
		Service: sk.Service,
		ApiKey:  encrypted,
	})
	if err != nil {
		return fmt.Errorf("Error saving service key")
	}
	return nil
}

func (s *serviceKeyService) List(ctx context.Context, userID int64) ([]*models.ServiceKey, error) {
	keys, err := s.sk.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting service keys")
	}
	return keys, nil
}

func (s *serviceKeyService) Remove(ctx context.Context, userID int64, service string) error {
	if service == "" {
		err := errors.New("service cannot be empty")
		slog.Info(err.Error())
		return err
	}

	return s.sk.Remove(ctx, userID, service)
}
