package models

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Attachment is a downloadable file reference in display form.
type Attachment struct {
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}

// AttachmentList is the canonical, ordered list of documents of an entity.
type AttachmentList []Attachment

// DocumentShape records which wire representation an attachment list was read from.
type DocumentShape int

const (
	ShapeNone DocumentShape = iota
	ShapeArray
	ShapeEncoded
	ShapeNamed
)

func (s DocumentShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeEncoded:
		return "encoded"
	case ShapeNamed:
		return "named"
	default:
		return "none"
	}
}

// NamedDocument maps an individually named field to its display name.
type NamedDocument struct {
	Field       string
	DisplayName string
}

// ResolveDocuments turns whichever representation the backend used into one list.
// raw is the value of the array/encoded field (may be nil); named holds all top-level
// fields of the entity so individually named document fields can be picked up.
// Shapes are tried in order array, encoded string, named fields; a malformed value of
// one shape falls through to the next.
func ResolveDocuments(raw json.RawMessage, named map[string]json.RawMessage, fields []NamedDocument) (AttachmentList, DocumentShape) {
	if list, ok := decodeArray(raw); ok && len(list) > 0 {
		return list, ShapeArray
	}
	var encoded string
	if len(raw) > 0 && json.Unmarshal(raw, &encoded) == nil {
		if list, ok := decodeArray(json.RawMessage(encoded)); ok && len(list) > 0 {
			return list, ShapeEncoded
		}
	}
	var out AttachmentList
	for _, f := range fields {
		for _, key := range []string{f.Field + "_url", f.Field} {
			v, ok := named[key]
			if !ok {
				continue
			}
			var u string
			if json.Unmarshal(v, &u) == nil && strings.TrimSpace(u) != "" {
				out = append(out, Attachment{DisplayName: f.DisplayName, URL: u})
				break
			}
		}
	}
	if len(out) > 0 {
		return out, ShapeNamed
	}
	return AttachmentList{}, ShapeNone
}

// UnmarshalJSON accepts an array or a JSON-encoded array string; anything else
// decodes to an empty list.
func (l *AttachmentList) UnmarshalJSON(b []byte) error {
	list, _ := ResolveDocuments(b, nil, nil)
	*l = list
	return nil
}

type wireAttachment struct {
	DisplayName  string `json:"display_name"`
	Name         string `json:"name"`
	DocumentName string `json:"document_name"`
	DocumentType string `json:"document_type"`
	Filename     string `json:"filename"`
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	FileURL      string `json:"file_url"`
	Path         string `json:"path"`
	FilePath     string `json:"file_path"`
}

func (w wireAttachment) resolve() Attachment {
	u := firstNonEmpty(w.URL, w.FileURL, w.FilePath, w.Path)
	name := firstNonEmpty(w.DisplayName, w.Name, w.DocumentName, w.Filename, w.FileName, w.DocumentType)
	if name == "" {
		name = baseName(u)
	}
	return Attachment{DisplayName: name, URL: u}
}

func decodeArray(raw json.RawMessage) (AttachmentList, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make(AttachmentList, 0, len(items))
	for _, it := range items {
		var s string
		if json.Unmarshal(it, &s) == nil {
			if s != "" {
				out = append(out, Attachment{DisplayName: baseName(s), URL: s})
			}
			continue
		}
		var w wireAttachment
		if json.Unmarshal(it, &w) != nil {
			continue
		}
		if a := w.resolve(); a.URL != "" {
			out = append(out, a)
		}
	}
	return out, true
}

func baseName(p string) string {
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		p = u.Path
	}
	b := path.Base(p)
	if dec, err := url.PathUnescape(b); err == nil {
		b = dec
	}
	if b == "." || b == "/" {
		return ""
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
