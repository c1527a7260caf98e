package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/pkg/utils"
)

// poster pushes one video to a set of target platforms and records one
// outcome row per target. Targets succeed or fail independently; a row
// is written either way.
type poster struct {
	cfg      config.Config
	registry platform.Registry
	ca       repository.ConnectedAccountRepository
	pc       repository.PostedContentRepository
}

func newPoster(
	cfg config.Config,
	registry platform.Registry,
	ca repository.ConnectedAccountRepository,
	pc repository.PostedContentRepository) *poster {
	return &poster{
		cfg:      cfg,
		registry: registry,
		ca:       ca,
		pc:       pc,
	}
}

func (p *poster) fanOut(
	ctx context.Context,
	userID int64,
	ruleID sql.NullInt64,
	video *platform.Video,
	caption string,
	targets []string,
	settings *models.Settings) []*models.PostedContent {

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, 5) // Concurrency limit

	results := make([]*models.PostedContent, 0, len(targets))

	for _, target := range targets {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(target string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			row := p.postToTarget(ctx, userID, ruleID, video, caption, target, settings)

			mu.Lock()
			results = append(results, row)
			mu.Unlock()
		}(target)
	}

	wg.Wait()
	return results
}

func (p *poster) postToTarget(
	ctx context.Context,
	userID int64,
	ruleID sql.NullInt64,
	video *platform.Video,
	caption string,
	target string,
	settings *models.Settings) *models.PostedContent {

	row := &models.PostedContent{
		AutomationRuleID: ruleID,
		UserID:           userID,
		SourcePlatform:   platform.PlatformYoutube,
		SourceVideoID:    video.VideoID,
		SourceVideoURL:   video.URL,
		SourceVideoTitle: video.Title,
		TargetPlatform:   target,
		Caption:          caption,
	}

	result, err := p.publish(ctx, userID, target, video, caption, settings)
	if err != nil {
		row.Status = models.PostStatusFailed
		row.ErrorMessage = err.Error()
		log.Printf("Error posting to %s for user %d: %v", target, userID, err)
	} else {
		row.Status = models.PostStatusPosted
		row.TargetPostID = result.PostID
		row.TargetPostURL = result.PostURL
		row.PostedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	id, err := p.pc.Create(ctx, row)
	if err != nil {
		log.Printf("Error saving posting outcome for user %d: %v", userID, err)
	} else {
		row.ID = id
	}

	return row
}

func (p *poster) publish(
	ctx context.Context,
	userID int64,
	target string,
	video *platform.Video,
	caption string,
	settings *models.Settings) (*platform.PostResult, error) {

	account, isExist, err := p.ca.GetActive(ctx, userID, target)
	if err != nil {
		return nil, err
	}
	if !isExist {
		return nil, fmt.Errorf("No %s account connected", target)
	}

	adapter, ok := p.registry.Get(target)
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", target)
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(p.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	req := platform.PostRequest{
		AccessToken: accessToken,
		SourceURL:   video.URL,
		Caption:     caption,
	}
	if settings != nil {
		switch target {
		case platform.PlatformPinterest:
			req.TargetID = settings.PinterestBoardID
		case platform.PlatformFacebook:
			req.TargetID = settings.FacebookPageID
		}
	}

	return adapter.Post(ctx, req)
}
