package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/security"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/errors"
)

const testSecret = "test_secret_key_minimum_32_chars"

type stubPages struct {
	submitted []services.PageInput
}

func (s *stubPages) Submit(_ context.Context, in services.PageInput) (*models.Page, error) {
	s.submitted = append(s.submitted, in)
	return &models.Page{PID: "P_ab12cd34"}, nil
}

func (s *stubPages) Save(_ context.Context, pid string, in services.PageInput) (*models.Page, error) {
	return &models.Page{PID: pid, Title: in.Title}, nil
}

func (s *stubPages) Get(_ context.Context, pid string) (*services.PageDetail, error) {
	if pid != "P_ab12cd34" {
		return nil, errors.New(errors.ErrCodeNotFound, "page not found")
	}
	return &services.PageDetail{
		Page:         &models.Page{PID: pid, Language: "fa", Title: "مولوی", Tags: []models.Tag{{Name: "شاعر"}}},
		Translations: []models.Page{{PID: "P_ef56gh78", Language: "en", Title: "Rumi"}},
	}, nil
}

func (s *stubPages) GetAny(_ context.Context, pid string) (*models.Page, error) {
	return &models.Page{PID: pid, Author: "a@b.com", IsActive: false}, nil
}

func (s *stubPages) Tags(_ context.Context, language string) ([]models.Tag, error) {
	return []models.Tag{{Name: "شاعر", Keyword: "شاعر", Language: language}}, nil
}

func (s *stubPages) Search(_ context.Context, language, query string, page int) (*services.PageList, error) {
	return nil, errSearchFailed
}

func (s *stubPages) Random(_ context.Context, language string) ([]models.Page, error) {
	return []models.Page{{PID: "P_1", Language: "fa"}}, nil
}

func (s *stubPages) List(_ context.Context, active *bool, page int) (*services.PageList, error) {
	return &services.PageList{Pages: []models.Page{{PID: "P_1", IsActive: false}}}, nil
}

var errSearchFailed = errors.Wrap(context.DeadlineExceeded, errors.ErrCodeInternalError, "failed to search pages")

type stubReports struct{}

func (stubReports) Submit(_ context.Context, pid string, in services.ReportInput) (*models.Report, error) {
	if in.Reporter == "" {
		return nil, errors.New(errors.ErrCodeValidation, "ایمیل گزارش‌دهنده معتبر نیست")
	}
	rid := "R_ab12cd34_7"
	return &models.Report{ID: 7, RID: &rid, Page: models.Page{PID: pid}}, nil
}

func (stubReports) Resolve(_ context.Context, id uint, res services.Resolution) (*models.Report, error) {
	return nil, errors.New(errors.ErrCodeState, "این گزارش قبلاً بررسی شده است")
}

func (stubReports) GetByRID(_ context.Context, rid string) (*models.Report, error) {
	return &models.Report{RID: &rid, Status: models.ReportStatusPending, Body: "secret", Reporter: "r@laum.ir"}, nil
}

func (stubReports) List(_ context.Context, status string, page int) (*services.ReportList, error) {
	return &services.ReportList{Reports: []models.Report{{ID: 1, Reporter: "r@laum.ir"}}}, nil
}

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, email, password string) (string, error) {
	return "", errors.New(errors.ErrCodeUnauthorized, "ایمیل یا رمز عبور اشتباه است")
}

type stubSettings struct {
	updated map[string]string
}

func (s *stubSettings) Site(_ context.Context) (config.SiteSettings, error) {
	return config.SiteSettings{Title: "لاوم"}, nil
}

func (s *stubSettings) Update(_ context.Context, key, content string) error {
	if s.updated == nil {
		s.updated = make(map[string]string)
	}
	s.updated[key] = content
	return nil
}

func newTestAPI() (*API, *stubPages, *stubSettings) {
	pages := &stubPages{}
	settings := &stubSettings{}
	cfg := &config.Config{
		JWTSecret:          testSecret,
		Languages:          []string{"fa", "en"},
		DefaultLanguage:    "fa",
		CORSAllowedOrigins: []string{"*"},
		RateLimitPerIP:     100,
	}
	return NewAPI(pages, stubReports{}, stubAuth{}, settings, cfg), pages, settings
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorDetail {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func staffToken(t *testing.T, superuser bool) string {
	t.Helper()
	token, err := security.GenerateJWT(3, "staff@laum.ir", superuser, testSecret, security.DefaultTokenTTL)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func TestPreviewEditors(t *testing.T) {
	api, _, _ := newTestAPI()
	h := api.Routes()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantEdited string
		wantCode   string
	}{
		{
			name:       "Full chain",
			body:       `{"editors":["space","number","arabic","punctuation_marks"],"text":"  علي   در سال 1398 گفت:\"سلام\" ,چرا ?  "}`,
			wantStatus: http.StatusOK,
			wantEdited: "علی در سال ۱۳۹۸ گفت: «سلام» ،چرا ؟",
		},
		{
			name:       "Escape return off",
			body:       `{"editors":["space"],"text":"a\nb","escape_return":false}`,
			wantStatus: http.StatusOK,
			wantEdited: "a\nb",
		},
		{
			name:       "Unknown editor",
			body:       `{"editors":["space","bold"],"text":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeConfiguration,
		},
		{
			name:       "Missing text",
			body:       `{"editors":["space"]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "Null text",
			body:       `{"editors":["space"],"text":null}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
		{
			name:       "Empty text",
			body:       `{"editors":["space"],"text":""}`,
			wantStatus: http.StatusOK,
			wantEdited: "",
		},
		{
			name:       "Unknown field",
			body:       `{"editors":["space"],"txt":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/editors/preview", tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if got := decodeError(t, rec).Code; got != tt.wantCode {
					t.Errorf("error code = %s, want %s", got, tt.wantCode)
				}
				return
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["edited"] != tt.wantEdited {
				t.Errorf("edited = %q, want %q", resp["edited"], tt.wantEdited)
			}
		})
	}
}

func TestGetPage(t *testing.T) {
	api, _, _ := newTestAPI()
	h := api.Routes()

	rec := do(t, h, http.MethodGet, "/api/v1/pages/P_ab12cd34", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var page pageView
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Title != "مولوی" || len(page.Tags) != 1 || len(page.Translations) != 1 {
		t.Errorf("page = %+v", page)
	}
	if page.IsActive != nil || page.Author != "" {
		t.Error("public page view exposes staff fields")
	}

	rec = do(t, h, http.MethodGet, "/api/v1/pages/P_missing0", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != errors.ErrCodeNotFound {
		t.Errorf("error code = %s, want %s", got, errors.ErrCodeNotFound)
	}
}

func TestSearchPages_InternalErrorIsHidden(t *testing.T) {
	api, _, _ := newTestAPI()

	rec := do(t, api.Routes(), http.MethodGet, "/api/v1/pages?q=test", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	detail := decodeError(t, rec)
	if detail.Code != errors.ErrCodeInternalError || strings.Contains(detail.Message, "deadline") {
		t.Errorf("error = %+v, want a generic internal error", detail)
	}
}

func TestSubmit(t *testing.T) {
	api, pages, _ := newTestAPI()
	h := api.Routes()

	rec := do(t, h, http.MethodPost, "/api/v1/pages", `{"title":"مولوی","content":"متن","author":"a@laum.ir","tags":["شاعر"]}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("page status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	if len(pages.submitted) != 1 || pages.submitted[0].Tags[0] != "شاعر" {
		t.Errorf("submitted = %+v", pages.submitted)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/pages/P_ab12cd34/reports", `{"body":"غلط دارد","reporter":"r@laum.ir"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("report status = %d, want 201", rec.Code)
	}
	var ack submittedView
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ack.ID != "R_ab12cd34_7" || ack.Display != "R_ab۱۲cd۳۴_۷" {
		t.Errorf("ack = %+v", ack)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/pages/P_ab12cd34/reports", `{"body":"غلط دارد"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("report without reporter status = %d, want 400", rec.Code)
	}
}

func TestGetReport_HidesStaffFields(t *testing.T) {
	api, _, _ := newTestAPI()

	rec := do(t, api.Routes(), http.MethodGet, "/api/v1/reports/R_ab12cd34_7", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "secret") || strings.Contains(body, "r@laum.ir") {
		t.Errorf("public report exposes body or reporter: %s", body)
	}
}

func TestAdminRoutes(t *testing.T) {
	api, _, settings := newTestAPI()
	h := api.Routes()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{name: "No token", method: http.MethodGet, path: "/api/v1/admin/reports", wantStatus: http.StatusUnauthorized},
		{name: "List reports", method: http.MethodGet, path: "/api/v1/admin/reports?status=pending", token: staffToken(t, false), wantStatus: http.StatusOK},
		{name: "List pages", method: http.MethodGet, path: "/api/v1/admin/pages?active=false", token: staffToken(t, false), wantStatus: http.StatusOK},
		{name: "Bad active filter", method: http.MethodGet, path: "/api/v1/admin/pages?active=maybe", token: staffToken(t, false), wantStatus: http.StatusBadRequest},
		{name: "Resolved report", method: http.MethodPatch, path: "/api/v1/admin/reports/7", body: `{"status":"denied"}`, token: staffToken(t, false), wantStatus: http.StatusConflict},
		{name: "Bad report id", method: http.MethodPatch, path: "/api/v1/admin/reports/abc", body: `{}`, token: staffToken(t, false), wantStatus: http.StatusNotFound},
		{name: "Get inactive page", method: http.MethodGet, path: "/api/v1/admin/pages/P_ab12cd34", token: staffToken(t, false), wantStatus: http.StatusOK},
		{name: "Save page", method: http.MethodPut, path: "/api/v1/admin/pages/P_ab12cd34", body: `{"title":"Rumi"}`, token: staffToken(t, false), wantStatus: http.StatusOK},
		{name: "Settings need superuser", method: http.MethodPut, path: "/api/v1/admin/settings/site_title", body: `{"content":"x"}`, token: staffToken(t, false), wantStatus: http.StatusForbidden},
		{name: "Settings as superuser", method: http.MethodPut, path: "/api/v1/admin/settings/site_title", body: `{"content":"لاوم"}`, token: staffToken(t, true), wantStatus: http.StatusNoContent},
		{name: "Wrong login", method: http.MethodPost, path: "/api/v1/admin/login", body: `{"email":"a@laum.ir","password":"x"}`, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, tt.token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	if settings.updated["site_title"] != "لاوم" {
		t.Errorf("settings.updated = %v", settings.updated)
	}
}

func TestListTags(t *testing.T) {
	api, _, _ := newTestAPI()
	rec := do(t, api.Routes(), http.MethodGet, "/api/v1/tags?lang=fa", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Tags []tagView `json:"tags"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(body.Tags) != 1 || body.Tags[0].Name != "شاعر" {
		t.Errorf("tags = %+v", body.Tags)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{errors.ErrCodeValidation, http.StatusBadRequest},
		{errors.ErrCodeConfiguration, http.StatusBadRequest},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{errors.ErrCodeForbidden, http.StatusForbidden},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeState, http.StatusConflict},
		{errors.ErrCodeAlreadyExists, http.StatusConflict},
		{errors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
