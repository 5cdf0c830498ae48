package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// File is one binary part of a multipart upload.
type File struct {
	// Field is the form field name; empty means the resource's default file field.
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart writes the payload as a JSON string under metaField followed by one
// part per file.
func encodeMultipart(metaField, defaultFileField string, payload any, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if payload != nil {
		meta, err := json.Marshal(payload)
		if err != nil {
			return nil, "", appErr.Wrap(err, appErr.CodeValidation, "payload is not serializable")
		}
		if err := w.WriteField(metaField, string(meta)); err != nil {
			return nil, "", appErr.Wrap(err, appErr.CodeInternal, "encode metadata part")
		}
	}

	for i, f := range files {
		field := f.Field
		if field == "" {
			field = defaultFileField
		}
		if field == "" {
			return nil, "", appErr.New(appErr.CodeValidation, "resource does not accept attachments")
		}
		if f.Content == nil {
			return nil, "", appErr.New(appErr.CodeValidation, fmt.Sprintf("attachment %d has no content", i+1))
		}
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", field, i+1)
		}
		ct := f.ContentType
		if ct == "" {
			ct = mime.TypeByExtension(filepath.Ext(name))
		}
		if ct == "" {
			ct = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(filepath.Base(name))))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", appErr.Wrap(err, appErr.CodeInternal, "encode file part")
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", appErr.Wrap(err, appErr.CodeValidation, fmt.Sprintf("read attachment %s", name))
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", appErr.Wrap(err, appErr.CodeInternal, "finish multipart body")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
