package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mrouhi13/laum/internal/models"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/logger"
)

func (a *API) searchPages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := a.pages.Search(r.Context(), q.Get("lang"), q.Get("q"), pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageListView(list, func(p *models.Page) pageView {
		v := newPageView(p)
		v.Content = ""
		return v
	}))
}

func (a *API) randomPages(w http.ResponseWriter, r *http.Request) {
	pages, err := a.pages.Random(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]pageView, 0, len(pages))
	for i := range pages {
		views = append(views, newPageView(&pages[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pages": views})
}

func (a *API) getPage(w http.ResponseWriter, r *http.Request) {
	detail, err := a.pages.Get(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDetailView(detail))
}

func (a *API) submitPage(w http.ResponseWriter, r *http.Request) {
	var in services.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := a.pages.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSubmittedView(page.PID))
}

func (a *API) submitReport(w http.ResponseWriter, r *http.Request) {
	var in services.ReportInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	report, err := a.reports.Submit(r.Context(), chi.URLParam(r, "pid"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rid := ""
	if report.RID != nil {
		rid = *report.RID
	}
	writeJSON(w, http.StatusCreated, newSubmittedView(rid))
}

func (a *API) getReport(w http.ResponseWriter, r *http.Request) {
	report, err := a.reports.GetByRID(r.Context(), chi.URLParam(r, "rid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportView(report))
}

type tagView struct {
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
}

func (a *API) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.pages.Tags(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]tagView, 0, len(tags))
	for _, t := range tags {
		views = append(views, tagView{Name: t.Name, Keyword: t.Keyword})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tags": views})
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	site, err := a.settings.Site(r.Context())
	if err != nil {
		// stored settings are optional; serve the configured defaults
		logger.Warn("Failed to load stored settings", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"site":             site,
		"languages":        a.cfg.Languages,
		"default_language": a.cfg.DefaultLanguage,
	})
}

type previewRequest struct {
	Editors      []string `json:"editors"`
	Text         *string  `json:"text"`
	Strip        *bool    `json:"strip,omitempty"`
	EscapeReturn *bool    `json:"escape_return,omitempty"`
}

// previewEditors runs an editor chain over text and returns the result
// without storing anything. Strip and escape_return default to true.
func (a *API) previewEditors(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts := services.PreviewOptions{Strip: true, EscapeReturn: true}
	if req.Strip != nil {
		opts.Strip = *req.Strip
	}
	if req.EscapeReturn != nil {
		opts.EscapeReturn = *req.EscapeReturn
	}

	edited, err := services.Preview(req.Editors, req.Text, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"original": *req.Text,
		"edited":   edited,
	})
}
