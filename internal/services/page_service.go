package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/mrouhi13/laum/pkg/utils"
)

const maxSearchQueryLength = 100

var allowedImageTypes = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

type PageStore interface {
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) error
	SetActive(ctx context.Context, pid string, active bool) error
	GetByPID(ctx context.Context, pid string, activeOnly bool) (*models.Page, error)
	Search(ctx context.Context, language, query string, offset, limit int) ([]models.Page, int64, error)
	Random(ctx context.Context, language string, n int) ([]models.Page, error)
	List(ctx context.Context, active *bool, offset, limit int) ([]models.Page, int64, error)
	LinkTranslation(ctx context.Context, pid, otherPID string) error
	Translations(ctx context.Context, page *models.Page) ([]models.Page, error)
}

type TagStore interface {
	FindOrCreate(ctx context.Context, language string, names []string) ([]models.Tag, error)
	ListActive(ctx context.Context, language string) ([]models.Tag, error)
}

// PageInput carries the editable fields of a page. IsActive and
// TranslationOf are honoured for staff only.
type PageInput struct {
	Language      string   `json:"language"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Event         string   `json:"event"`
	Content       string   `json:"content"`
	Image         string   `json:"image"`
	ImageCaption  string   `json:"image_caption"`
	Reference     string   `json:"reference"`
	Website       string   `json:"website"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	IsActive      *bool    `json:"is_active,omitempty"`
	TranslationOf string   `json:"translation_of,omitempty"`
}

type PageDetail struct {
	Page         *models.Page  `json:"page"`
	Translations []models.Page `json:"translations"`
}

type PageList struct {
	Pages      []models.Page `json:"pages"`
	Pagination Pagination    `json:"pagination"`
}

type PageService struct {
	pages    PageStore
	tags     TagStore
	editor   *ContentEditor
	notifier Notifier
	cfg      *config.Config
}

func NewPageService(pages PageStore, tags TagStore, editor *ContentEditor, notifier Notifier, cfg *config.Config) *PageService {
	return &PageService{
		pages:    pages,
		tags:     tags,
		editor:   editor,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Submit stores a visitor's page for review. It stays hidden until staff activate it.
func (s *PageService) Submit(ctx context.Context, in PageInput) (*models.Page, error) {
	author, ok := security.NormalizeEmail(in.Author)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "ایمیل نویسنده معتبر نیست")
	}
	in.Author = author
	in.IsActive = nil
	in.TranslationOf = ""

	page, err := s.build(ctx, &models.Page{}, in)
	if err != nil {
		return nil, err
	}
	if err := s.pages.Create(ctx, page); err != nil {
		return nil, err
	}

	logger.Info("Page submitted", "pid", page.PID, "language", page.Language)
	if err := s.notifier.NotifyNewPage(ctx, page); err != nil {
		logger.Warn("Failed to notify staff about new page", "pid", page.PID, "error", err)
	}
	return page, nil
}

// Save creates (empty pid) or updates a page on behalf of staff.
func (s *PageService) Save(ctx context.Context, pid string, in PageInput) (*models.Page, error) {
	page := &models.Page{}
	if pid != "" {
		existing, err := s.pages.GetByPID(ctx, utils.NormalizePublicID(pid), false)
		if err != nil {
			return nil, err
		}
		page = existing
		if in.Language == "" {
			in.Language = page.Language
		}
	}

	page, err := s.build(ctx, page, in)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil {
		page.IsActive = *in.IsActive
	}

	if page.ID == 0 {
		err = s.pages.Create(ctx, page)
	} else {
		err = s.pages.Update(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	if in.TranslationOf != "" {
		if err := s.pages.LinkTranslation(ctx, page.PID, utils.NormalizePublicID(in.TranslationOf)); err != nil {
			return nil, err
		}
	}

	logger.Info("Page saved", "pid", page.PID, "active", page.IsActive)
	return page, nil
}

func (s *PageService) build(ctx context.Context, page *models.Page, in PageInput) (*models.Page, error) {
	language := s.language(in.Language)
	if !s.cfg.IsSupportedLanguage(language) {
		return nil, errors.Newf(errors.ErrCodeValidation, "زبان پشتیبانی نمی‌شود: %s", language)
	}

	page.Language = language
	page.Title = in.Title
	page.Subtitle = in.Subtitle
	page.Event = in.Event
	page.Content = in.Content
	page.Image = strings.TrimSpace(in.Image)
	page.ImageCaption = in.ImageCaption
	page.Reference = in.Reference
	page.Website = in.Website
	page.Author = strings.TrimSpace(in.Author)
	s.editor.EditPage(page)

	if err := page.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeValidation, err.Error())
	}
	if page.Image != "" && !security.ValidateFileType(page.Image, allowedImageTypes) {
		return nil, errors.New(errors.ErrCodeValidation, "قالب تصویر پشتیبانی نمی‌شود")
	}

	names, err := s.editor.EditTags(in.Tags)
	if err != nil {
		return nil, err
	}
	page.Tags = []models.Tag{}
	if len(names) > 0 {
		tags, err := s.tags.FindOrCreate(ctx, language, names)
		if err != nil {
			return nil, err
		}
		page.Tags = tags
	}
	return page, nil
}

// Activate publishes a page
func (s *PageService) Activate(ctx context.Context, pid string) error {
	pid = utils.NormalizePublicID(pid)
	if err := s.pages.SetActive(ctx, pid, true); err != nil {
		return err
	}
	logger.Info("Page activated", "pid", pid)
	return nil
}

// Get returns an active page and its published translations
func (s *PageService) Get(ctx context.Context, pid string) (*PageDetail, error) {
	page, err := s.pages.GetByPID(ctx, utils.NormalizePublicID(pid), true)
	if err != nil {
		return nil, err
	}

	translations, err := s.pages.Translations(ctx, page)
	if err != nil {
		return nil, err
	}
	return &PageDetail{Page: page, Translations: translations}, nil
}

// GetAny returns a page regardless of its status, for staff
func (s *PageService) GetAny(ctx context.Context, pid string) (*models.Page, error) {
	return s.pages.GetByPID(ctx, utils.NormalizePublicID(pid), false)
}

// Search runs a ranked full-text search over the active pages of a language
func (s *PageService) Search(ctx context.Context, language, query string, page int) (*PageList, error) {
	query = utils.NormalizeSearchQuery(query)
	if n := utf8.RuneCountInString(query); n == 0 || n > maxSearchQueryLength {
		return nil, errors.New(errors.ErrCodeValidation, "عبارت جست‌وجو باید ۱ تا ۱۰۰ نویسه باشد")
	}

	language = s.language(language)
	page = clampPage(page)
	pages, total, err := s.pages.Search(ctx, language, query, offsetFor(page, s.cfg.PageSize), s.cfg.PageSize)
	if err != nil {
		return nil, err
	}
	return &PageList{Pages: pages, Pagination: newPagination(page, s.cfg.PageSize, total)}, nil
}

// Random returns a few random active pages of a language
func (s *PageService) Random(ctx context.Context, language string) ([]models.Page, error) {
	return s.pages.Random(ctx, s.language(language), s.cfg.RandomPageCount)
}

// List returns pages for staff; active filters when non-nil
func (s *PageService) List(ctx context.Context, active *bool, page int) (*PageList, error) {
	page = clampPage(page)
	pages, total, err := s.pages.List(ctx, active, offsetFor(page, s.cfg.PageSize), s.cfg.PageSize)
	if err != nil {
		return nil, err
	}
	return &PageList{Pages: pages, Pagination: newPagination(page, s.cfg.PageSize, total)}, nil
}

// Tags lists the active tags of a language
func (s *PageService) Tags(ctx context.Context, language string) ([]models.Tag, error) {
	return s.tags.ListActive(ctx, s.language(language))
}

func (s *PageService) language(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return s.cfg.DefaultLanguage
	}
	return lang
}
