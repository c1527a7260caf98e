package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crosscast/crosscast-api/internal/transfer"
)

type CaptionService interface {
	Generate(ctx context.Context, cr *transfer.CaptionRequest) (string, error)
}

type captionService struct {
	captions CaptionWriter
}

func NewCaptionService(captions CaptionWriter) CaptionService {
	return &captionService{
		captions: captions,
	}
}

func (s *captionService) Generate(ctx context.Context, cr *transfer.CaptionRequest) (string, error) {
	if cr.Title == "" {
		err := errors.New("video title cannot be empty")
		slog.Info(err.Error())
		return "", err
	}

	if cr.Platform == "" {
		err := errors.New("target platform cannot be empty")
		slog.Info(err.Error())
		return "", err
	}

	return s.captions.Generate(ctx, cr.Title, cr.Description, cr.Platform)
}
