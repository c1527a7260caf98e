package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/internal/transfer"
)

type ContentService interface {
	List(ctx context.Context, userID int64) ([]*models.PostedContent, error)
	ListByRule(ctx context.Context, userID, ruleID int64) ([]*models.PostedContent, error)
	ManualPost(ctx context.Context, userID int64, mp *transfer.ManualPostRequest) ([]*models.PostedContent, error)
}

type contentService struct {
	pc     repository.PostedContentRepository
	sr     repository.SettingsRepository
	videos VideoFetcher
	poster *poster
}

func NewContentService(
	cfg config.Config,
	registry platform.Registry,
	ca repository.ConnectedAccountRepository,
	pc repository.PostedContentRepository,
	sr repository.SettingsRepository,
	videos VideoFetcher) ContentService {
	return &contentService{
		pc:     pc,
		sr:     sr,
		videos: videos,
		poster: newPoster(cfg, registry, ca, pc),
	}
}

func (s *contentService) List(ctx context.Context, userID int64) ([]*models.PostedContent, error) {
	contents, err := s.pc.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posted content")
	}
	return contents, nil
}

func (s *contentService) ListByRule(ctx context.Context, userID, ruleID int64) ([]*models.PostedContent, error) {
	contents, err := s.pc.ListByRuleID(ctx, ruleID, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting posted content")
	}
	return contents, nil
}

// ManualPost is the composer path: same fan-out as an automation run,
// but with a user-written caption and no rule behind it.
func (s *contentService) ManualPost(ctx context.Context, userID int64, mp *transfer.ManualPostRequest) ([]*models.PostedContent, error) {
	if len(mp.TargetPlatforms) == 0 {
		err := errors.New("no target platforms selected")
		slog.Info(err.Error())
		return nil, err
	}

	for _, target := range mp.TargetPlatforms {
		if !postableTargets[target] {
			err := fmt.Errorf("unsupported target platform: %s", target)
			slog.Info(err.Error())
			return nil, err
		}
	}

	videoID, ok := platform.ExtractVideoID(mp.VideoURL)
	if !ok {
		err := errors.New("video url is not a youtube video url or id")
		slog.Info(err.Error())
		return nil, err
	}

	video, err := s.videos.FetchVideo(ctx, videoID)
	if err != nil {
		slog.Info(err.Error())
		video = &platform.Video{VideoID: videoID, URL: platform.WatchURL(videoID)}
	}

	caption := mp.Caption
	if caption == "" {
		caption = video.Title
	}

	settings, _, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		settings = nil
	}

	results := s.poster.fanOut(ctx, userID, sql.NullInt64{}, video, caption, mp.TargetPlatforms, settings)

	return results, nil
}
