package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mrouhi13/laum/internal/config"
	"github.com/mrouhi13/laum/internal/middleware"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/services"
)

type PageAPI interface {
	Submit(ctx context.Context, in services.PageInput) (*models.Page, error)
	Save(ctx context.Context, pid string, in services.PageInput) (*models.Page, error)
	Get(ctx context.Context, pid string) (*services.PageDetail, error)
	GetAny(ctx context.Context, pid string) (*models.Page, error)
	Tags(ctx context.Context, language string) ([]models.Tag, error)
	Search(ctx context.Context, language, query string, page int) (*services.PageList, error)
	Random(ctx context.Context, language string) ([]models.Page, error)
	List(ctx context.Context, active *bool, page int) (*services.PageList, error)
}

type ReportAPI interface {
	Submit(ctx context.Context, pid string, in services.ReportInput) (*models.Report, error)
	Resolve(ctx context.Context, id uint, res services.Resolution) (*models.Report, error)
	GetByRID(ctx context.Context, rid string) (*models.Report, error)
	List(ctx context.Context, status string, page int) (*services.ReportList, error)
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type SettingAPI interface {
	Site(ctx context.Context) (config.SiteSettings, error)
	Update(ctx context.Context, key, content string) error
}

// API serves the public site API and the staff admin API.
type API struct {
	pages    PageAPI
	reports  ReportAPI
	auth     AuthAPI
	settings SettingAPI
	cfg      *config.Config
}

func NewAPI(pages PageAPI, reports ReportAPI, auth AuthAPI, settings SettingAPI, cfg *config.Config) *API {
	return &API{
		pages:    pages,
		reports:  reports,
		auth:     auth,
		settings: settings,
		cfg:      cfg,
	}
}

// Routes builds the router mounted at the server root.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		requestLogger,
		chimw.Recoverer,
		chimw.Timeout(30*time.Second),
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	writeLimit := httprate.LimitByIP(a.rateLimit(), time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/pages", a.searchPages)
		r.Get("/pages/random", a.randomPages)
		r.Get("/pages/{pid}", a.getPage)
		r.Get("/tags", a.listTags)
		r.Get("/reports/{rid}", a.getReport)
		r.Get("/settings", a.getSettings)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/pages", a.submitPage)
			r.Post("/pages/{pid}/reports", a.submitReport)
			r.Post("/editors/preview", a.previewEditors)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(writeLimit).Post("/login", a.login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(a.cfg.JWTSecret))
				r.Get("/pages", a.listPages)
				r.Post("/pages", a.createPage)
				r.Get("/pages/{pid}", a.getAnyPage)
				r.Put("/pages/{pid}", a.savePage)
				r.Get("/reports", a.listReports)
				r.Patch("/reports/{id}", a.resolveReport)
				r.Put("/settings/{key}", a.updateSetting)
			})
		})
	})

	return r
}

func (a *API) rateLimit() int {
	if a.cfg.RateLimitPerIP > 0 {
		return a.cfg.RateLimitPerIP
	}
	return 60
}
