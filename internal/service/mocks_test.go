package service

import (
	"context"
	"sync"
	"time"

	"github.com/crosscast/crosscast-api/internal/models"
	"github.com/crosscast/crosscast-api/internal/platform"
)

type mockAdapter struct {
	mu       sync.Mutex
	name     string
	token    *platform.Token
	profile  *platform.Profile
	authErr  error
	postErr  error
	requests []platform.PostRequest
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) AuthURL(state string) string {
	return "https://example.com/oauth?state=" + state
}

func (m *mockAdapter) ExchangeCode(ctx context.Context, code string) (*platform.Token, *platform.Profile, error) {
	if m.authErr != nil {
		return nil, nil, m.authErr
	}
	return m.token, m.profile, nil
}

func (m *mockAdapter) Post(ctx context.Context, req platform.PostRequest) (*platform.PostResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.postErr != nil {
		return nil, m.postErr
	}
	return &platform.PostResult{PostID: m.name + "-post", PostURL: "https://" + m.name + ".com/post"}, nil
}

type mockAccountRepo struct {
	mu          sync.Mutex
	accounts    map[string]*models.ConnectedAccount
	upserted    []*models.ConnectedAccount
	deactivated []int64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*models.ConnectedAccount)}
}

func (m *mockAccountRepo) Upsert(ctx context.Context, account *models.ConnectedAccount) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, account)
	m.accounts[account.Platform] = account
	return int64(len(m.upserted)), nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*models.ConnectedAccount, error) {
	return nil, nil
}

func (m *mockAccountRepo) GetActive(ctx context.Context, userID int64, platformName string) (*models.ConnectedAccount, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[platformName]
	if !ok {
		return nil, false, nil
	}
	return acc, true, nil
}

func (m *mockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ConnectedAccount, error) {
	return nil, nil
}

func (m *mockAccountRepo) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*models.ConnectedAccount, error) {
	return nil, nil
}

func (m *mockAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.ID == accountID && acc.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountRepo) SetToken(ctx context.Context, userID int64, platformName string, account *models.ConnectedAccount) error {
	return nil
}

func (m *mockAccountRepo) Deactivate(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockContentRepo struct {
	mu   sync.Mutex
	rows []*models.PostedContent
}

func (m *mockContentRepo) Create(ctx context.Context, pc *models.PostedContent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, pc)
	return int64(len(m.rows)), nil
}

func (m *mockContentRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PostedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows, nil
}

func (m *mockContentRepo) ListByRuleID(ctx context.Context, ruleID, userID int64) ([]*models.PostedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PostedContent
	for _, row := range m.rows {
		if row.AutomationRuleID.Valid && row.AutomationRuleID.Int64 == ruleID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockContentRepo) byPlatform(platformName string) *models.PostedContent {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.TargetPlatform == platformName {
			return row
		}
	}
	return nil
}

type mockRuleRepo struct {
	rules        map[int64]*models.AutomationRule
	lastRunCalls int
	statusCalls  []string
	removed      []int64
}

func newMockRuleRepo() *mockRuleRepo {
	return &mockRuleRepo{rules: make(map[int64]*models.AutomationRule)}
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *models.AutomationRule) (int64, error) {
	id := int64(len(m.rules) + 1)
	rule.ID = id
	m.rules[id] = rule
	return id, nil
}

func (m *mockRuleRepo) GetByIDAndUserID(ctx context.Context, ruleID, userID int64) (*models.AutomationRule, bool, error) {
	rule, ok := m.rules[ruleID]
	if !ok || rule.UserID != userID {
		return nil, false, nil
	}
	return rule, true, nil
}

func (m *mockRuleRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.AutomationRule, error) {
	var out []*models.AutomationRule
	for _, rule := range m.rules {
		if rule.UserID == userID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (m *mockRuleRepo) UpdateStatus(ctx context.Context, ruleID int64, status string) error {
	m.statusCalls = append(m.statusCalls, status)
	if rule, ok := m.rules[ruleID]; ok {
		rule.Status = status
	}
	return nil
}

func (m *mockRuleRepo) SetLastRun(ctx context.Context, ruleID int64, lastRun time.Time) error {
	m.lastRunCalls++
	return nil
}

func (m *mockRuleRepo) Remove(ctx context.Context, ruleID int64) error {
	m.removed = append(m.removed, ruleID)
	delete(m.rules, ruleID)
	return nil
}

type mockSettingsRepo struct {
	settings *models.Settings
	upserted *models.Settings
}

func (m *mockSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	if m.settings == nil {
		return nil, false, nil
	}
	return m.settings, true, nil
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings *models.Settings) error {
	m.upserted = settings
	return nil
}

type mockVideoFetcher struct {
	video *platform.Video
	err   error
}

func (m *mockVideoFetcher) FetchVideo(ctx context.Context, videoID string) (*platform.Video, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.video, nil
}

type mockCaptionWriter struct {
	caption string
	err     error
	calls   int
	targets []string
}

func (m *mockCaptionWriter) Generate(ctx context.Context, title, description, targetPlatform string) (string, error) {
	m.calls++
	m.targets = append(m.targets, targetPlatform)
	if m.err != nil {
		return "", m.err
	}
	return m.caption, nil
}
