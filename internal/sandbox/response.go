package sandbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox/middleware"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// envelope is the create/delete success body.
type envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// pageBody is the list success body.
type pageBody struct {
	Items      []document `json:"items"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	IsPrevious bool       `json:"is_previous"`
	IsNext     bool       `json:"is_next"`
}

// fieldIssue is one entry of a 422 detail list.
type fieldIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// httpError is a rejection with a status and either a detail text or field issues.
type httpError struct {
	status int
	detail string
	fields map[string]string
}

func (e *httpError) Error() string {
	if len(e.fields) > 0 {
		return fmt.Sprintf("%d: %v", e.status, e.fields)
	}
	return fmt.Sprintf("%d: %s", e.status, e.detail)
}

func rejectf(status int, format string, args ...any) *httpError {
	return &httpError{status: status, detail: fmt.Sprintf(format, args...)}
}

func invalidFields(fields map[string]string) *httpError {
	return &httpError{status: http.StatusUnprocessableEntity, fields: fields}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if he, ok := err.(*httpError); ok {
		if len(he.fields) == 0 {
			middleware.WriteDetail(w, he.status, he.detail)
			return
		}
		keys := make([]string, 0, len(he.fields))
		for k := range he.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		issues := make([]fieldIssue, 0, len(keys))
		for _, k := range keys {
			issues = append(issues, fieldIssue{Loc: []string{"body", k}, Msg: he.fields[k], Type: "value_error"})
		}
		writeJSON(w, he.status, map[string]any{"detail": issues})
		return
	}
	if ae, ok := appErr.As(err); ok {
		switch ae.Code {
		case appErr.CodeNotFound:
			middleware.WriteDetail(w, http.StatusNotFound, ae.Message)
			return
		case appErr.CodeConflict:
			middleware.WriteDetail(w, http.StatusConflict, ae.Message)
			return
		}
	}
	logger.L().Error("sandbox request failed",
		zap.String("id", middleware.GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	middleware.WriteDetail(w, http.StatusInternalServerError, "Internal server error")
}
