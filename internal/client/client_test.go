package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/auth"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

type backend struct {
	write *httptest.Server
	read  *httptest.Server
	hits  atomic.Int32
}

func newBackend(t *testing.T, write, read http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	wrap := func(h http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.hits.Add(1)
			if h == nil {
				http.NotFound(w, r)
				return
			}
			h(w, r)
		})
	}
	b.write = httptest.NewServer(wrap(write))
	b.read = httptest.NewServer(wrap(read))
	t.Cleanup(func() {
		b.write.Close()
		b.read.Close()
	})
	return b
}

func newAPI(t *testing.T, b *backend, token string, opts ...Option) *API {
	t.Helper()
	s, err := auth.NewSession(auth.NewMemoryStore())
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, s.Set(token))
	}
	c, err := New(Config{
		WriteBaseURL: b.write.URL,
		ReadBaseURL:  b.read.URL + "/",
		Timeout:      2 * time.Second,
		PageLimit:    20,
	}, s, opts...)
	require.NoError(t, err)
	return NewAPI(c)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestWriteWithoutTokenFailsLocally(t *testing.T) {
	b := newBackend(t, nil, nil)
	api := newAPI(t, b, "")

	_, err := api.Contacts.Create(context.Background(), models.ContactPayload{ContactType: models.ContactPhone, Value: "9876543210"})
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthenticated))
	assert.Zero(t, b.hits.Load())
}

func TestEmptyIDIsRejectedBeforeDispatch(t *testing.T) {
	b := newBackend(t, nil, nil)
	api := newAPI(t, b, "tok")

	_, err := api.Projects.Get(context.Background(), " ")
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))
	_, err = api.Schemes.Update(context.Background(), "", models.SchemePayload{})
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))
	assert.True(t, appErr.IsCode(api.Agreements.Delete(context.Background(), ""), appErr.CodeValidation))
	_, err = api.Agreements.Download(context.Background(), "")
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))
	assert.Zero(t, b.hits.Load())
}

func TestReadAttachesTokenWhenPresent(t *testing.T) {
	var gotAuth, gotReqID string
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, models.Project{ID: "p1", Title: "Lake View"})
	})

	api := newAPI(t, b, "tok")
	p, err := api.Projects.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Lake View", p.Title)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.NotEmpty(t, gotReqID)

	anon := newAPI(t, b, "")
	_, err = anon.Projects.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestCreateMultipartWithMetadataPart(t *testing.T) {
	var meta map[string]any
	var fileName, fileBody, fileType string
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/legal-agreements/create", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("agreement")), &meta))
		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		fileName, fileBody, fileType = h.Filename, string(body), h.Header.Get("Content-Type")
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Agreement created",
			"data":    models.LegalAgreement{ID: "ag1", UnitID: "u1", FilePath: "agreements/u1/sale.pdf"},
		})
	}, nil)

	api := newAPI(t, b, "tok")
	out, err := api.Agreements.Create(context.Background(),
		models.AgreementPayload{UnitID: "u1", Title: "Sale deed"},
		File{Name: "sale.pdf", Content: strings.NewReader("%PDF-1.4")},
	)
	require.NoError(t, err)
	assert.Equal(t, "ag1", out.ID)
	assert.Equal(t, "u1", meta["unit_id"])
	assert.Equal(t, "sale.pdf", fileName)
	assert.Equal(t, "%PDF-1.4", fileBody)
	assert.Equal(t, "application/pdf", fileType)
}

func TestCreateJSONAcceptsBareEntity(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in models.ContactPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusOK, models.ContactInfo{ID: "c1", ContactType: in.ContactType, Value: in.Value})
	}, nil)

	api := newAPI(t, b, "tok")
	c, err := api.Contacts.Create(context.Background(), models.ContactPayload{ContactType: models.ContactEmail, Value: "sales@ramya.in"})
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "sales@ramya.in", c.Value)

	_, err = api.Contacts.Create(context.Background(), models.ContactPayload{}, File{Name: "x.txt", Content: strings.NewReader("x")})
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))
}

func TestErrorFallbackOrder(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		code    appErr.Code
		message string
		fields  map[string]string
	}{
		{"detail wins", 400, `{"detail":"Scheme not active","message":"ignored"}`, appErr.CodeRejected, "Scheme not active", nil},
		{"message only", 422, `{"message":"X"}`, appErr.CodeRejected, "X", nil},
		{"neither", 422, `{}`, appErr.CodeRejected, appErr.GenericServerText, nil},
		{"unparseable", 502, `<html>bad gateway</html>`, appErr.CodeUnparseable, appErr.GenericUnparseableText, nil},
		{"not found", 404, `{"detail":"Project not found"}`, appErr.CodeNotFound, "Project not found", nil},
		{
			"validation list", 422,
			`{"detail":[{"loc":["body","scheme","total_amount"],"msg":"field required"},{"loc":["body"],"msg":"bad body"}]}`,
			appErr.CodeRejected, "total_amount: field required; bad body",
			map[string]string{"total_amount": "field required"},
		},
		{
			"duplicate hint", 400, `{"detail":"Agent with this PAN already exists"}`,
			appErr.CodeRejected, "Agent with this PAN already exists",
			map[string]string{"pan_number": "This PAN is already registered"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			api := newAPI(t, b, "")
			_, err := api.Schemes.Get(context.Background(), "s1")
			ae, ok := appErr.As(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.status, ae.Status)
			assert.Equal(t, tc.message, ae.Message)
			if tc.fields != nil {
				assert.Equal(t, tc.fields, ae.Fields)
			}
		})
	}
}

func TestUnreachableIsDistinct(t *testing.T) {
	b := newBackend(t, nil, nil)
	api := newAPI(t, b, "tok")
	b.read.Close()

	_, err := api.Projects.Get(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeUnreachable))
	assert.False(t, appErr.FromServer(err))
	assert.Equal(t, appErr.GenericUnreachableText, appErr.UserMessage(err))
}

func TestCanceledContext(t *testing.T) {
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Project{ID: "p1"})
	})
	api := newAPI(t, b, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Projects.Get(ctx, "p1")
	assert.True(t, appErr.IsCode(err, appErr.CodeCanceled))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListPagingAndFilters(t *testing.T) {
	var query map[string]string
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schemes/all", r.URL.Path)
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":       []models.Scheme{{ID: "s1", ProjectID: "p1"}},
			"page":        2,
			"limit":       1,
			"total":       3,
			"total_pages": 3,
			"is_previous": true,
			"is_next":     true,
		})
	})

	api := newAPI(t, b, "")
	page, err := api.Schemes.List(context.Background(), Query{Page: 2, Limit: 1, Filters: map[string]string{"project_id": "p1", "empty": ""}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"page": "2", "limit": "1", "project_id": "p1"}, query)
	require.Len(t, page.Items, 1)
	assert.True(t, page.HasNext())
	assert.Equal(t, 3, page.Total)
}

func TestListAcceptsBareArray(t *testing.T) {
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.ContactInfo{{ID: "c1"}, {ID: "c2"}})
	})
	api := newAPI(t, b, "")
	page, err := api.Contacts.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasNext())
}

func TestDownloadEscapesPath(t *testing.T) {
	var rawPath string
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sale deed.pdf"`)
		_, _ = w.Write([]byte("%PDF"))
	})

	api := newAPI(t, b, "tok")
	url := api.Agreements.DownloadURL("agreements/u1/sale deed.pdf")
	assert.Equal(t, b.read.URL+"/legal-agreements/download/agreements%2Fu1%2Fsale%20deed.pdf", url)

	blob, err := api.Agreements.Download(context.Background(), "agreements/u1/sale deed.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/legal-agreements/download/agreements%2Fu1%2Fsale%20deed.pdf", rawPath)
	assert.Equal(t, "sale deed.pdf", blob.Name)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, []byte("%PDF"), blob.Body)
}

func TestLoginStoresToken(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admins/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		var in models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "s3cret-pass" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, models.LoginResult{AccessToken: "fresh", TokenType: "bearer"})
	}, nil)

	api := newAPI(t, b, "")
	_, err := api.Login(context.Background(), "admin@ramya.in", "wrong")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthenticated))
	assert.False(t, api.Session().Authenticated())

	_, err = api.Login(context.Background(), "admin@ramya.in", "s3cret-pass")
	require.NoError(t, err)
	tok, ok := api.Session().Token()
	require.True(t, ok)
	assert.Equal(t, "fresh", tok)

	require.NoError(t, api.Logout())
	assert.False(t, api.Session().Authenticated())
}

func TestMetricsRecorded(t *testing.T) {
	b := newBackend(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Admin{ID: "a1"})
	})
	reg := prometheus.NewRegistry()
	api := newAPI(t, b, "", WithRegisterer(reg))

	_, err := api.Admins.Get(context.Background(), "a1")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "ramya_admin_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
