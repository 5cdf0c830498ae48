package client

import (
	"encoding/json"
	"strings"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// errorBody is the error shape both backends use. detail is either a string or a list
// of {loc, msg} entries.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// decodeError turns a non-2xx response into an AppError, preferring detail, then
// message, then a generic text.
func decodeError(status int, body []byte) *appErr.AppError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &appErr.AppError{
			Code:    appErr.CodeUnparseable,
			Message: appErr.GenericUnparseableText,
			Status:  status,
			Err:     err,
		}
	}

	detail, fields := parseDetail(eb.Detail)
	if detail == "" {
		detail = strings.TrimSpace(eb.Message)
	}
	e := appErr.Server(status, detail)
	for k, v := range fields {
		e.WithField(k, v)
	}
	if field, hint, ok := appErr.DuplicateField(detail); ok {
		if _, taken := e.Fields[field]; !taken {
			e.WithField(field, hint)
		}
	}
	return e
}

func parseDetail(raw json.RawMessage) (string, map[string]string) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s), nil
	}
	var items []detailItem
	if json.Unmarshal(raw, &items) == nil {
		fields := map[string]string{}
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg == "" {
				continue
			}
			if f := locField(it.Loc); f != "" {
				fields[f] = it.Msg
				msgs = append(msgs, f+": "+it.Msg)
			} else {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; "), fields
	}
	var obj struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		if obj.Message != "" {
			return obj.Message, nil
		}
		return obj.Msg, nil
	}
	return "", nil
}

// locField picks the innermost named path element, skipping "body" and list indexes.
func locField(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		s, ok := loc[i].(string)
		if !ok || s == "body" || s == "query" || s == "path" {
			continue
		}
		return s
	}
	return ""
}
