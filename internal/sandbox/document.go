package sandbox

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"

	"gorm.io/datatypes"
)

// document is one entity body as stored and served.
type document map[string]any

func decodeDocument(b []byte) (document, error) {
	doc := document{}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d document) json() datatypes.JSON {
	b, _ := json.Marshal(d)
	return datatypes.JSON(b)
}

func (d document) clone() document {
	out := make(document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d document) str(key string) string {
	s, _ := d[key].(string)
	return strings.TrimSpace(s)
}

func (d document) num(key string) (float64, bool) {
	v, ok := d[key].(float64)
	return v, ok
}

// set reports whether key holds a non-null value.
func (d document) set(key string) bool {
	v, ok := d[key]
	return ok && v != nil
}

func (d document) boolean(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

func (d document) list(key string) []any {
	l, _ := d[key].([]any)
	return l
}

// upload is one received file part.
type upload struct {
	field       string
	name        string
	contentType string
	data        []byte
}

const maxUpload = 32 << 20

// readBody parses a JSON body, or a multipart body whose metadata part holds the JSON
// document. Without a metadata part the plain form values make up the document.
func readBody(r *http.Request, metadataField string) (document, []upload, error) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "multipart/") {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxUpload))
		if err != nil {
			return nil, nil, err
		}
		doc, err := decodeDocument(b)
		if err != nil {
			return nil, nil, rejectf(http.StatusBadRequest, "Invalid JSON body")
		}
		return doc, nil, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, nil, rejectf(http.StatusBadRequest, "Invalid multipart body")
	}
	form := r.MultipartForm

	doc := document{}
	if meta := form.Value[metadataField]; metadataField != "" && len(meta) > 0 {
		d, err := decodeDocument([]byte(meta[0]))
		if err != nil {
			return nil, nil, rejectf(http.StatusBadRequest, "Invalid %s metadata", metadataField)
		}
		doc = d
	} else {
		for k, vs := range form.Value {
			if len(vs) > 0 {
				doc[k] = vs[0]
			}
		}
	}

	fields := make([]string, 0, len(form.File))
	for k := range form.File {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	var files []upload
	for _, field := range fields {
		for _, fh := range form.File[field] {
			u, err := readPart(field, fh)
			if err != nil {
				return nil, nil, err
			}
			files = append(files, u)
		}
	}
	return doc, files, nil
}

func readPart(field string, fh *multipart.FileHeader) (upload, error) {
	f, err := fh.Open()
	if err != nil {
		return upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return upload{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return upload{field: field, name: cleanName(fh.Filename), contentType: ct, data: data}, nil
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
