package sandbox

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/repository"
	mw "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/sandbox/middleware"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/utils"
)

// resourceHandler serves one resource on both ports.
type resourceHandler struct {
	s    *Sandbox
	rule rule
}

func (h *resourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, files, err := readBody(r, h.rule.metadataField)
	if err != nil {
		writeError(w, r, err)
		return
	}
	password, _ := doc["password"].(string)
	delete(doc, "password")
	for _, k := range []string{"id", "created_at", "updated_at", "balance_amount"} {
		delete(doc, k)
	}
	id := uuid.NewString()
	if h.rule.hasActive && !doc.set("is_active") {
		doc["is_active"] = true
	}
	if h.rule.name == "admins" && len(password) < 8 {
		writeError(w, r, invalidFields(map[string]string{"password": "ensure this value has at least 8 characters"}))
		return
	}

	if err := h.validate(r, doc, nil, files, id); err != nil {
		writeError(w, r, err)
		return
	}
	doc["id"] = id
	if err := h.attach(r, id, doc, files); err != nil {
		writeError(w, r, err)
		return
	}
	now := h.s.now().UTC().Format(time.RFC3339)
	doc["created_at"] = now
	doc["updated_at"] = now

	rec := &repository.Record{ID: id, Resource: h.rule.name, Active: doc.boolean("is_active", true), Body: doc.json()}
	if err := h.s.records.Create(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	if password != "" && h.rule.name == "admins" {
		if err := h.storePassword(r, id, doc.str("email"), password); err != nil {
			writeError(w, r, err)
			return
		}
	}
	h.s.log.Info("created",
		zap.String("resource", h.rule.name),
		zap.String("id", id),
		zap.String("admin_id", mw.GetAdminID(r.Context())),
	)
	writeJSON(w, http.StatusCreated, envelope{Message: h.rule.entity + " created successfully", Data: doc})
}

func (h *resourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.s.records.Get(r.Context(), h.rule.name, id)
	if err != nil {
		writeError(w, r, rejectf(http.StatusNotFound, "%s not found", h.rule.entity))
		return
	}
	prev, err := decodeDocument(rec.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, files, err := readBody(r, h.rule.metadataField)
	if err != nil {
		writeError(w, r, err)
		return
	}
	password, _ := patch["password"].(string)
	delete(patch, "password")
	if h.rule.name == "admins" && password != "" && len(password) < 8 {
		writeError(w, r, invalidFields(map[string]string{"password": "ensure this value has at least 8 characters"}))
		return
	}

	doc := prev.clone()
	for k, v := range patch {
		switch k {
		case "id", "created_at", "updated_at", "balance_amount":
			continue
		}
		doc[k] = v
	}
	if err := h.validate(r, doc, prev, files, id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.attach(r, id, doc, files); err != nil {
		writeError(w, r, err)
		return
	}
	doc["updated_at"] = h.s.now().UTC().Format(time.RFC3339)

	rec.Body = doc.json()
	rec.Active = doc.boolean("is_active", true)
	if err := h.s.records.Update(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}
	if h.rule.name == "admins" && (password != "" || doc.str("email") != prev.str("email")) {
		if err := h.updateCredential(r, id, doc.str("email"), password); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *resourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.rule.softDelete {
		writeError(w, r, rejectf(http.StatusMethodNotAllowed, "%s records are deactivated, not deleted", h.rule.entity))
		return
	}
	id := chi.URLParam(r, "id")
	rec, err := h.s.records.Get(r.Context(), h.rule.name, id)
	if err != nil {
		writeError(w, r, rejectf(http.StatusNotFound, "%s not found", h.rule.entity))
		return
	}
	doc, _ := decodeDocument(rec.Body)
	if err := h.s.records.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if p := doc.str("file_path"); p != "" {
		if err := h.s.files.DeleteByPath(r.Context(), p); err != nil {
			h.s.log.Warn("orphaned file", zap.String("path", p), zap.Error(err))
		}
	}
	if h.rule.name == "admins" {
		if err := h.s.creds.DeleteByAdmin(r.Context(), id); err != nil {
			h.s.log.Warn("credential not removed", zap.String("admin_id", id), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, envelope{Message: h.rule.entity + " deleted successfully"})
}

func (h *resourceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	filter := repository.RecordFilter{
		Resource:        h.rule.name,
		Fields:          map[string]string{},
		IncludeInactive: q.Get("include_inactive") == "true" || !h.rule.hasActive,
		Page:            page,
		Limit:           limit,
	}
	for k, vs := range q {
		switch k {
		case "page", "limit", "include_inactive":
			continue
		}
		if len(vs) > 0 && vs[0] != "" {
			filter.Fields[k] = vs[0]
		}
	}

	recs, total, err := h.s.records.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := make([]document, 0, len(recs))
	for _, rec := range recs {
		doc, err := decodeDocument(rec.Body)
		if err != nil {
			writeError(w, r, err)
			return
		}
		items = append(items, doc)
	}
	pages := (int(total) + limit - 1) / limit
	writeJSON(w, http.StatusOK, pageBody{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      int(total),
		TotalPages: pages,
		IsPrevious: page > 1,
		IsNext:     page < pages,
	})
}

// Get serves inactive records too; only listings hide them.
func (h *resourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.s.records.Get(r.Context(), h.rule.name, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, rejectf(http.StatusNotFound, "%s not found", h.rule.entity))
		return
	}
	doc, err := decodeDocument(rec.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *resourceHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil || p == "" {
		writeError(w, r, rejectf(http.StatusBadRequest, "Invalid file path"))
		return
	}
	f, err := h.s.files.GetByPath(r.Context(), p)
	if err != nil {
		writeError(w, r, rejectf(http.StatusNotFound, "File not found"))
		return
	}
	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.Header().Set("ETag", `"`+f.Checksum+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(f.Data)
}

func (h *resourceHandler) validate(r *http.Request, doc, prev document, files []upload, id string) error {
	if len(files) > 0 && h.rule.fileField == "" {
		return invalidFields(map[string]string{"files": h.rule.entity + " records carry no files"})
	}
	c := &checkContext{ctx: r.Context(), s: h.s, doc: doc, prev: prev, files: files}
	issues := map[string]string{}
	if err := h.rule.check(c, issues); err != nil {
		return err
	}
	if len(issues) > 0 {
		return invalidFields(issues)
	}
	for _, u := range h.rule.unique {
		v := doc.str(u.field)
		if v == "" {
			continue
		}
		dup, err := h.s.records.FindByField(r.Context(), h.rule.name, u.field, v, id)
		if err != nil {
			return err
		}
		if dup != nil {
			return rejectf(http.StatusBadRequest, "%s with this %s already exists", h.rule.entity, u.label)
		}
	}
	return nil
}

// attach stores uploaded files and records their download paths on doc.
func (h *resourceHandler) attach(r *http.Request, id string, doc document, files []upload) error {
	if h.rule.name == "projects" {
		if err := h.dropImages(r, doc); err != nil {
			return err
		}
	}
	for _, u := range files {
		p := fmt.Sprintf("%s/%s/%s", h.rule.name, id, u.name)
		sf := &repository.StoredFile{
			ID:          uuid.NewString(),
			Path:        p,
			Name:        u.name,
			ContentType: u.contentType,
			Size:        int64(len(u.data)),
			Checksum:    utils.ChecksumHex(u.data),
			Data:        u.data,
		}
		if err := h.s.files.Put(r.Context(), sf); err != nil {
			return err
		}
		switch {
		case h.rule.singleFile:
			if old := doc.str("file_path"); old != "" && old != p {
				_ = h.s.files.DeleteByPath(r.Context(), old)
			}
			doc["file_path"] = p
			doc["file_name"] = u.name
		case h.rule.name == "projects":
			doc["images"] = append(doc.list("images"), map[string]any{"url": p, "filename": u.name})
		default:
			doc["documents"] = append(doc.list("documents"), map[string]any{"display_name": documentName(u), "url": p})
		}
	}
	return nil
}

// dropImages removes gallery images named in images_to_delete.
func (h *resourceHandler) dropImages(r *http.Request, doc document) error {
	names := map[string]bool{}
	for _, n := range doc.list("images_to_delete") {
		if s, ok := n.(string); ok {
			names[s] = true
		}
	}
	delete(doc, "images_to_delete")
	if len(names) == 0 {
		return nil
	}
	kept := []any{}
	var gone []string
	for _, img := range doc.list("images") {
		m, _ := img.(map[string]any)
		fn, _ := m["filename"].(string)
		if names[fn] {
			if u, _ := m["url"].(string); u != "" {
				gone = append(gone, u)
			}
			continue
		}
		kept = append(kept, img)
	}
	doc["images"] = kept
	return h.s.files.DeleteByPath(r.Context(), gone...)
}

func documentName(u upload) string {
	for _, f := range models.AgentDocumentFields {
		if f.Field == u.field {
			return f.DisplayName
		}
	}
	return u.name
}

func (h *resourceHandler) storePassword(r *http.Request, adminID, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return h.s.creds.Upsert(r.Context(), &repository.Credential{AdminID: adminID, Email: email, PasswordHash: string(hash)})
}

// updateCredential keeps the stored hash when only the email changes.
func (h *resourceHandler) updateCredential(r *http.Request, adminID, email, password string) error {
	if password != "" {
		return h.storePassword(r, adminID, email, password)
	}
	c, err := h.s.creds.GetByAdmin(r.Context(), adminID)
	if err != nil {
		return err
	}
	c.Email = email
	return h.s.creds.Update(r.Context(), c)
}
