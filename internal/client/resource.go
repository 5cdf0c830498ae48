package client

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// ResourceSpec describes how one backend resource is addressed and encoded.
type ResourceSpec struct {
	// Name is the path segment on both ports, e.g. "legal-agreements".
	Name string
	// MetadataField is the multipart field carrying the JSON payload. Empty means the
	// resource only takes JSON bodies.
	MetadataField string
	// FileField is the default field name for attachments.
	FileField string
	// AlwaysMultipart sends multipart even without files.
	AlwaysMultipart bool
}

// Query selects one page of a listing. Filters are passed through as query parameters.
type Query struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// Blob is a downloaded file.
type Blob struct {
	Name        string
	ContentType string
	Body        []byte
}

// Resource is the typed CRUD surface of one backend resource.
type Resource[T any] struct {
	c    *Client
	spec ResourceSpec
}

// NewResource binds spec to c.
func NewResource[T any](c *Client, spec ResourceSpec) *Resource[T] {
	return &Resource[T]{c: c, spec: spec}
}

// Spec returns the resource description.
func (r *Resource[T]) Spec() ResourceSpec { return r.spec }

// List fetches one page from the read port.
func (r *Resource[T]) List(ctx context.Context, q Query) (*models.Page[T], error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = r.c.pageLimit
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}

	res, err := r.c.do(ctx, request{port: ReadPort, method: http.MethodGet, path: r.collection("all"), query: v})
	if err != nil {
		return nil, err
	}
	return decodePage[T](res, page, limit)
}

// Get fetches one entity by id from the read port.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	res, err := r.c.do(ctx, request{port: ReadPort, method: http.MethodGet, path: r.collection(id)})
	if err != nil {
		return nil, err
	}
	return decodeEntity[T](res)
}

// Create posts a new entity to the write port.
func (r *Resource[T]) Create(ctx context.Context, payload any, files ...File) (*T, error) {
	req, err := r.mutation(http.MethodPost, r.collection("create"), payload, files)
	if err != nil {
		return nil, err
	}
	res, err := r.c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeEntity[T](res)
}

// Update sends a partial update. Files are optional; omitting them keeps the existing
// attachments.
func (r *Resource[T]) Update(ctx context.Context, id string, partial any, files ...File) (*T, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	req, err := r.mutation(http.MethodPut, r.collection(id), partial, files)
	if err != nil {
		return nil, err
	}
	res, err := r.c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeEntity[T](res)
}

// Delete issues a DELETE on the write port. Whether the row is really removed is up to
// the backend; soft-deleting resources are handled by the lifecycle layer instead.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	_, err := r.c.do(ctx, request{port: WritePort, method: http.MethodDelete, path: r.collection(id), auth: authRequired})
	return err
}

// DownloadURL renders the read-port URL an attachment path resolves to. Absolute URLs
// are returned unchanged.
func (r *Resource[T]) DownloadURL(p string) string {
	if isAbsolute(p) {
		return p
	}
	return r.c.readBase + "/" + r.spec.Name + "/download/" + url.PathEscape(strings.TrimPrefix(p, "/"))
}

// Download fetches an attachment through the read port.
func (r *Resource[T]) Download(ctx context.Context, p string) (*Blob, error) {
	if strings.TrimSpace(p) == "" {
		return nil, appErr.Validation(map[string]string{"path": "is required"})
	}
	req := request{port: ReadPort, method: http.MethodGet, rawURL: r.DownloadURL(p)}
	if isAbsolute(p) && !strings.HasPrefix(p, r.c.readBase+"/") {
		req.auth = authNone
	}
	res, err := r.c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Blob{
		Name:        blobName(res.header.Get("Content-Disposition"), p),
		ContentType: res.header.Get("Content-Type"),
		Body:        res.body,
	}, nil
}

func (r *Resource[T]) collection(seg string) string {
	return "/" + r.spec.Name + "/" + url.PathEscape(seg)
}

func (r *Resource[T]) mutation(method, p string, payload any, files []File) (request, error) {
	req := request{port: WritePort, method: method, path: p, auth: authRequired}
	var err error
	if len(files) > 0 || r.spec.AlwaysMultipart {
		if r.spec.MetadataField == "" {
			return request{}, appErr.New(appErr.CodeValidation, r.spec.Name+" does not accept attachments")
		}
		req.body, req.contentType, err = encodeMultipart(r.spec.MetadataField, r.spec.FileField, payload, files)
	} else {
		req.body, req.contentType, err = jsonBody(payload)
	}
	if err != nil {
		return request{}, err
	}
	return req, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return appErr.Validation(map[string]string{"id": "is required"})
	}
	return nil
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func unwrap(body []byte) []byte {
	var env envelope
	if json.Unmarshal(body, &env) == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data
	}
	return body
}

func decodeEntity[T any](res *response) (*T, error) {
	var out T
	if err := json.Unmarshal(unwrap(res.body), &out); err != nil {
		return nil, &appErr.AppError{
			Code:    appErr.CodeUnparseable,
			Message: appErr.GenericUnparseableText,
			Status:  res.status,
			Err:     err,
		}
	}
	return &out, nil
}

// decodePage accepts the paginated envelope and, from older endpoints, a bare array.
func decodePage[T any](res *response, page, limit int) (*models.Page[T], error) {
	body := bytes.TrimSpace(unwrap(res.body))
	if len(body) > 0 && body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, &appErr.AppError{Code: appErr.CodeUnparseable, Message: appErr.GenericUnparseableText, Status: res.status, Err: err}
		}
		p := models.NewPage(items, 1, max(len(items), 1))
		return &p, nil
	}
	var p models.Page[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &appErr.AppError{Code: appErr.CodeUnparseable, Message: appErr.GenericUnparseableText, Status: res.status, Err: err}
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	if p.Page == 0 {
		p.Page = page
	}
	if p.Limit == 0 {
		p.Limit = limit
	}
	return &p, nil
}

func blobName(disposition, p string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
			return params["filename"]
		}
	}
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	return path.Base(p)
}
