package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/pkg/utils"
	"github.com/h2non/filetype"
)

const maxUploadSize = 32 << 20 // imgbb caps uploads at 32 MB

// ImageUploader is the hosted image service behind the composer.
type ImageUploader interface {
	Upload(ctx context.Context, apiKey, imageBase64 string) (*platform.ImgbbUpload, error)
}

type UploadService interface {
	UploadImage(ctx context.Context, userID int64, data []byte) (*platform.ImgbbUpload, error)
}

type uploadService struct {
	cfg   config.Config
	sk    repository.ServiceKeyRepository
	imgbb ImageUploader
}

func NewUploadService(cfg config.Config, sk repository.ServiceKeyRepository, imgbb ImageUploader) UploadService {
	return &uploadService{
		cfg:   cfg,
		sk:    sk,
		imgbb: imgbb,
	}
}

// UploadImage pushes an image to imgbb with the user's own API key.
// The key is stored encrypted and scoped per user, never shared.
func (s *uploadService) UploadImage(ctx context.Context, userID int64, data []byte) (*platform.ImgbbUpload, error) {
	if len(data) == 0 {
		err := errors.New("no file data provided")
		slog.Info(err.Error())
		return nil, err
	}

	if len(data) > maxUploadSize {
		err := errors.New("file exceeds maximum upload size")
		slog.Info(err.Error())
		return nil, err
	}

	if !filetype.IsImage(data) {
		err := errors.New("file is not a supported image type")
		slog.Info(err.Error())
		return nil, err
	}

	key, isExist, err := s.sk.GetActive(ctx, userID, models.ServiceImgbb)
	if err != nil {
		return nil, err
	}
	if !isExist {
		err = errors.New("No imgbb API key configured")
		slog.Info(err.Error())
		return nil, err
	}

	apiKey, err := utils.Decrypt(key.ApiKey, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("Error reading imgbb API key")
	}

	return s.imgbb.Upload(ctx, apiKey, base64.StdEncoding.EncodeToString(data))
}
