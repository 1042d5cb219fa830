package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrouhi13/laum/internal/middleware"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "token_type": "Bearer"})
}

func (a *API) listPages(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeValidation, "active must be true or false"))
			return
		}
		active = &b
	}

	list, err := a.pages.List(r.Context(), active, pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPageListView(list, newStaffPageView))
}

func (a *API) getAnyPage(w http.ResponseWriter, r *http.Request) {
	page, err := a.pages.GetAny(r.Context(), chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStaffPageView(page))
}

func (a *API) createPage(w http.ResponseWriter, r *http.Request) {
	a.writePage(w, r, "", http.StatusCreated)
}

func (a *API) savePage(w http.ResponseWriter, r *http.Request) {
	a.writePage(w, r, chi.URLParam(r, "pid"), http.StatusOK)
}

func (a *API) writePage(w http.ResponseWriter, r *http.Request, pid string, status int) {
	var in services.PageInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	page, err := a.pages.Save(r.Context(), pid, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		logger.Info("Page saved by staff", "pid", page.PID, "staff", claims.Email)
	}
	writeJSON(w, status, newStaffPageView(page))
}

func (a *API) listReports(w http.ResponseWriter, r *http.Request) {
	list, err := a.reports.List(r.Context(), r.URL.Query().Get("status"), pageParam(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := reportListView{Reports: make([]reportView, 0, len(list.Reports)), Pagination: list.Pagination}
	for i := range list.Reports {
		out.Reports = append(out.Reports, newStaffReportView(&list.Reports[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) resolveReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "report not found"))
		return
	}

	var res services.Resolution
	if err := decodeJSON(w, r, &res); err != nil {
		writeError(w, r, err)
		return
	}

	report, err := a.reports.Resolve(r.Context(), uint(id), res)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		logger.Info("Report moderated", "id", report.ID, "status", report.Status, "staff", claims.Email)
	}
	writeJSON(w, http.StatusOK, newStaffReportView(report))
}

type settingRequest struct {
	Content string `json:"content"`
}

// updateSetting is limited to superusers.
func (a *API) updateSetting(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok || !claims.IsSuperuser {
		writeError(w, r, errors.New(errors.ErrCodeForbidden, "فقط مدیر کل می‌تواند تنظیمات را تغییر دهد"))
		return
	}

	var req settingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.settings.Update(r.Context(), chi.URLParam(r, "key"), req.Content); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
