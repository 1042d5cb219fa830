package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mrouhi13/laum/pkg/errors"
	"github.com/mrouhi13/laum/pkg/logger"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps an AppError code to an HTTP status. Internal errors are
// logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)

	message := "خطای داخلی سرور"
	var appErr *errors.AppError
	if status < http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	} else {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		code = errors.ErrCodeInternalError
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func statusFor(code string) int {
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeInvalidInput, errors.ErrCodeConfiguration:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAlreadyExists, errors.ErrCodeState:
		return http.StatusConflict
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "بدنه درخواست نامعتبر است")
	}
	return nil
}

// pageParam reads the 1-based ?page= query value.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}
