package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crosscast/crosscast-api/internal/platform"
)

// VideoBrowser is what the rule builder needs from the source platform:
// resolve one video and search for candidates.
type VideoBrowser interface {
	FetchVideo(ctx context.Context, videoID string) (*platform.Video, error)
	Search(ctx context.Context, query string, maxResults int64) ([]*platform.Video, error)
}

type VideoService interface {
	GetVideoInfo(ctx context.Context, videoURL string) (*platform.Video, error)
	Search(ctx context.Context, query string, maxResults int64) ([]*platform.Video, error)
}

type videoService struct {
	videos VideoBrowser
}

func NewVideoService(videos VideoBrowser) VideoService {
	return &videoService{
		videos: videos,
	}
}

func (s *videoService) GetVideoInfo(ctx context.Context, videoURL string) (*platform.Video, error) {
	videoID, ok := platform.ExtractVideoID(videoURL)
	if !ok {
		err := errors.New("video url is not a youtube video url or id")
		slog.Info(err.Error())
		return nil, err
	}

	return s.videos.FetchVideo(ctx, videoID)
}

func (s *videoService) Search(ctx context.Context, query string, maxResults int64) ([]*platform.Video, error) {
	if query == "" {
		err := errors.New("search query cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	return s.videos.Search(ctx, query, maxResults)
}
