package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/crosscast/crosscast-api/configs"
	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
	"github.com/crosscast/crosscast-api/internal/repository"
	"github.com/crosscast/crosscast-api/internal/transfer"
)

// VideoFetcher reads source video metadata.
type VideoFetcher interface {
	FetchVideo(ctx context.Context, videoID string) (*platform.Video, error)
}

// CaptionWriter turns video metadata into a platform-fitted caption.
type CaptionWriter interface {
	Generate(ctx context.Context, title, description, targetPlatform string) (string, error)
}

type AutomationService interface {
	Create(ctx context.Context, userID int64, rc *transfer.AutomationRuleCreation) (int64, error)
	GetRuleInfo(ctx context.Context, userID, ruleID int64) (*models.AutomationRule, error)
	List(ctx context.Context, userID int64) ([]*models.AutomationRule, error)
	UpdateStatus(ctx context.Context, userID, ruleID int64, status string) error
	Remove(ctx context.Context, userID, ruleID int64) error
	Execute(ctx context.Context, userID, ruleID int64) ([]*models.PostedContent, error)
}

type automationService struct {
	ar       repository.AutomationRuleRepository
	sr       repository.SettingsRepository
	videos   VideoFetcher
	captions CaptionWriter
	poster   *poster
}

func NewAutomationService(
	cfg config.Config,
	registry platform.Registry,
	ar repository.AutomationRuleRepository,
	ca repository.ConnectedAccountRepository,
	pc repository.PostedContentRepository,
	sr repository.SettingsRepository,
	videos VideoFetcher,
	captions CaptionWriter) AutomationService {
	return &automationService{
		ar:       ar,
		sr:       sr,
		videos:   videos,
		captions: captions,
		poster:   newPoster(cfg, registry, ca, pc),
	}
}

var postableTargets = map[string]bool{
	platform.PlatformPinterest: true,
	platform.PlatformInstagram: true,
	platform.PlatformFacebook:  true,
}

func (s *automationService) Create(ctx context.Context, userID int64, rc *transfer.AutomationRuleCreation) (int64, error) {
	if rc.Name == "" {
		err := errors.New("rule name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	if _, ok := platform.ExtractVideoID(rc.SourceIdentifier); !ok {
		err := errors.New("source identifier is not a youtube video url or id")
		slog.Info(err.Error())
		return 0, err
	}

	if len(rc.TargetPlatforms) == 0 {
		err := errors.New("no target platforms selected")
		slog.Info(err.Error())
		return 0, err
	}

	for _, target := range rc.TargetPlatforms {
		if !postableTargets[target] {
			err := fmt.Errorf("unsupported target platform: %s", target)
			slog.Info(err.Error())
			return 0, err
		}
	}

	sourcePlatform := rc.SourcePlatform
	if sourcePlatform == "" {
		sourcePlatform = platform.PlatformYoutube
	}

	rule := &models.AutomationRule{
		UserID:           userID,
		Name:             rc.Name,
		SourcePlatform:   sourcePlatform,
		SourceIdentifier: rc.SourceIdentifier,
		TargetPlatforms:  rc.TargetPlatforms,
		UseAICaptions:    rc.UseAICaptions,
		CaptionTemplate:  rc.CaptionTemplate,
		Status:           models.RuleStatusActive,
	}

	id, err := s.ar.Create(ctx, rule)
	if err != nil {
		return 0, fmt.Errorf("Error creating automation rule")
	}

	return id, nil
}

func (s *automationService) GetRuleInfo(ctx context.Context, userID, ruleID int64) (*models.AutomationRule, error) {
	rule, isExist, err := s.ar.GetByIDAndUserID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	if !isExist {
		err = errors.New("Automation rule doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	return rule, nil
}

func (s *automationService) List(ctx context.Context, userID int64) ([]*models.AutomationRule, error) {
	rules, err := s.ar.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting automation rules")
	}
	return rules, nil
}

func (s *automationService) UpdateStatus(ctx context.Context, userID, ruleID int64, status string) error {
	if status != models.RuleStatusActive && status != models.RuleStatusPaused {
		err := fmt.Errorf("invalid rule status: %s", status)
		slog.Info(err.Error())
		return err
	}

	_, isExist, err := s.ar.GetByIDAndUserID(ctx, ruleID, userID)
	if err != nil {
		return err
	}
	if !isExist {
		err = errors.New("Automation rule doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return s.ar.UpdateStatus(ctx, ruleID, status)
}

func (s *automationService) Remove(ctx context.Context, userID, ruleID int64) error {
	_, isExist, err := s.ar.GetByIDAndUserID(ctx, ruleID, userID)
	if err != nil {
		return err
	}
	if !isExist {
		err = errors.New("Automation rule doesn't exist")
		slog.Info(err.Error())
		return err
	}

	return s.ar.Remove(ctx, ruleID)
}

// Execute runs one automation end to end: read the source video, write
// a caption, push to every target, record one outcome row each. A rule
// that cannot be found writes nothing; after the fan-out last_run_at is
// stamped exactly once.
func (s *automationService) Execute(ctx context.Context, userID, ruleID int64) ([]*models.PostedContent, error) {
	rule, isExist, err := s.ar.GetByIDAndUserID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}
	if !isExist {
		err = errors.New("Automation rule doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	if len(rule.TargetPlatforms) == 0 {
		err = errors.New("no target platforms configured")
		slog.Info(err.Error())
		return nil, err
	}

	videoID, ok := platform.ExtractVideoID(rule.SourceIdentifier)
	if !ok {
		err = fmt.Errorf("could not extract video id from %q", rule.SourceIdentifier)
		slog.Info(err.Error())
		return nil, err
	}

	video, err := s.videos.FetchVideo(ctx, videoID)
	if err != nil {
		// Posting can still go ahead with the bare watch URL.
		slog.Info(err.Error())
		video = &platform.Video{VideoID: videoID, URL: platform.WatchURL(videoID)}
	}

	caption := s.buildCaption(ctx, rule, video)

	settings, _, err := s.sr.GetByUserID(ctx, userID)
	if err != nil {
		settings = nil
	}

	results := s.poster.fanOut(ctx, userID,
		sql.NullInt64{Int64: rule.ID, Valid: true},
		video, caption, rule.TargetPlatforms, settings)

	if err := s.ar.SetLastRun(ctx, rule.ID, time.Now()); err != nil {
		slog.Info(err.Error())
	}

	return results, nil
}

// buildCaption picks one caption for the whole run. AI captions are
// written against the first target platform's guidelines; on failure
// the rule degrades to its template, then to the video title.
func (s *automationService) buildCaption(ctx context.Context, rule *models.AutomationRule, video *platform.Video) string {
	if rule.UseAICaptions {
		caption, err := s.captions.Generate(ctx, video.Title, video.Description, rule.TargetPlatforms[0])
		if err == nil && caption != "" {
			return caption
		}
		if err != nil {
			slog.Info(err.Error())
		}
	}

	if rule.CaptionTemplate != "" {
		return rule.CaptionTemplate
	}

	return video.Title
}
