package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test_secret_key_minimum_32_chars",
		PIDPrefix:       "P",
		GIDPrefix:       "G",
		RIDPrefix:       "R",
		Languages:       []string{"fa", "en"},
		DefaultLanguage: "fa",
		PageSize:        8,
		RandomPageCount: 3,
	}
}

type fakePageStore struct {
	mu     sync.Mutex
	pages  map[string]*models.Page
	nextID uint

	searchQuery               string
	searchOffset, searchLimit int
	searchTotal               int64
	linked                    [][2]string
}

func newFakePageStore(pages ...*models.Page) *fakePageStore {
	s := &fakePageStore{pages: make(map[string]*models.Page)}
	for _, p := range pages {
		s.nextID++
		p.ID = s.nextID
		s.pages[p.PID] = p
	}
	return s
}

func (s *fakePageStore) Create(_ context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	page.ID = s.nextID
	if page.PID == "" {
		page.PID = fmt.Sprintf("P_%08d", page.ID)
	}
	s.pages[page.PID] = page
	return nil
}

func (s *fakePageStore) Update(_ context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.PID] = page
	return nil
}

func (s *fakePageStore) SetActive(_ context.Context, pid string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pid]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "page not found")
	}
	p.IsActive = active
	return nil
}

func (s *fakePageStore) GetByPID(_ context.Context, pid string, activeOnly bool) (*models.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pid]
	if !ok || (activeOnly && !p.IsActive) {
		return nil, errors.New(errors.ErrCodeNotFound, "page not found")
	}
	return p, nil
}

func (s *fakePageStore) Search(_ context.Context, language, query string, offset, limit int) ([]models.Page, int64, error) {
	s.searchQuery, s.searchOffset, s.searchLimit = query, offset, limit
	return []models.Page{}, s.searchTotal, nil
}

func (s *fakePageStore) Random(_ context.Context, language string, n int) ([]models.Page, error) {
	var out []models.Page
	for _, p := range s.pages {
		if p.IsActive && p.Language == language && len(out) < n {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePageStore) List(_ context.Context, active *bool, offset, limit int) ([]models.Page, int64, error) {
	var out []models.Page
	for _, p := range s.pages {
		if active == nil || p.IsActive == *active {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakePageStore) LinkTranslation(_ context.Context, pid, otherPID string) error {
	s.linked = append(s.linked, [2]string{pid, otherPID})
	return nil
}

func (s *fakePageStore) Translations(_ context.Context, page *models.Page) ([]models.Page, error) {
	return []models.Page{}, nil
}

type fakeTagStore struct {
	created []string
}

func (s *fakeTagStore) FindOrCreate(_ context.Context, language string, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, len(names))
	for i, name := range names {
		s.created = append(s.created, name)
		tags[i] = models.Tag{ID: uint(i + 1), Name: name, Keyword: models.TagKeyword(name), Language: language}
	}
	return tags, nil
}

func (s *fakeTagStore) ListActive(_ context.Context, language string) ([]models.Tag, error) {
	tags := []models.Tag{}
	for i, name := range s.created {
		tags = append(tags, models.Tag{ID: uint(i + 1), Name: name, Language: language, IsActive: true})
	}
	return tags, nil
}

type fakeReportStore struct {
	mu      sync.Mutex
	reports map[uint]*models.Report
	nextID  uint
	saves   int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: make(map[uint]*models.Report)}
}

func (s *fakeReportStore) Create(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	report.ID = s.nextID
	rid := models.ReportRID("R", report.Page.PID, report.ID)
	report.RID = &rid
	stored := *report
	s.reports[report.ID] = &stored
	return nil
}

func (s *fakeReportStore) GetByID(_ context.Context, id uint) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "report not found")
	}
	copied := *r
	return &copied, nil
}

func (s *fakeReportStore) GetByRID(_ context.Context, rid string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.RID != nil && *r.RID == rid {
			copied := *r
			return &copied, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "report not found")
}

func (s *fakeReportStore) List(_ context.Context, status string, offset, limit int) ([]models.Report, int64, error) {
	var out []models.Report
	for _, r := range s.reports {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (s *fakeReportStore) SaveModeration(_ context.Context, report *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reports[report.ID]
	if !ok || !stored.IsPending() {
		return errors.New(errors.ErrCodeState, "report is already resolved")
	}
	s.saves++
	stored.Status = report.Status
	stored.Description = report.Description
	return nil
}

type fakeNotifier struct {
	pages    []string
	reports  []string
	resolved []string
	err      error
}

func (n *fakeNotifier) NotifyNewPage(_ context.Context, page *models.Page) error {
	n.pages = append(n.pages, page.PID)
	return n.err
}

func (n *fakeNotifier) NotifyNewReport(_ context.Context, report *models.Report) error {
	n.reports = append(n.reports, deref(report.RID))
	return n.err
}

func (n *fakeNotifier) NotifyReportResolved(_ context.Context, report *models.Report) error {
	n.resolved = append(n.resolved, deref(report.RID))
	return n.err
}

type fakeLimiter struct {
	allow bool
	keys  []string
}

func (l *fakeLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	return l.allow
}

type fakeUserStore struct {
	users      map[string]*models.User
	lastLogins []uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.Email]; ok {
		return errors.New(errors.ErrCodeAlreadyExists, "email already registered")
	}
	user.ID = uint(len(s.users) + 1)
	s.users[user.Email] = user
	return nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return u, nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, userID uint) error {
	s.lastLogins = append(s.lastLogins, userID)
	return nil
}

type fakeSettingStore struct {
	settings map[string]string
}

func (s *fakeSettingStore) List(_ context.Context) ([]models.WebsiteSetting, error) {
	var out []models.WebsiteSetting
	for k, v := range s.settings {
		out = append(out, models.WebsiteSetting{Setting: k, Content: v})
	}
	return out, nil
}

func (s *fakeSettingStore) Upsert(_ context.Context, key, content string) error {
	if s.settings == nil {
		s.settings = make(map[string]string)
	}
	s.settings[key] = content
	return nil
}
