package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

func TestOpenFiles(t *testing.T) {
	dir := t.TempDir()
	pan := filepath.Join(dir, "pan.pdf")
	require.NoError(t, os.WriteFile(pan, []byte("pdf"), 0o644))

	files, closeAll, err := openFiles([]string{"pan_card=" + pan, pan})
	require.NoError(t, err)
	defer closeAll()

	require.Len(t, files, 2)
	assert.Equal(t, "pan_card", files[0].Field)
	assert.Equal(t, "pan.pdf", files[0].Name)
	assert.Equal(t, "application/pdf", files[0].ContentType)
	assert.Empty(t, files[1].Field)
	b, err := io.ReadAll(files[1].Content)
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(b))

	_, _, err = openFiles([]string{filepath.Join(dir, "missing.png")})
	assert.True(t, appErr.IsCode(err, appErr.CodeValidation))
}

func TestReadPayloadRejectsBadJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0o644))

	var v map[string]any
	assert.True(t, appErr.IsCode(readPayload(p, &v), appErr.CodeValidation))
	assert.True(t, appErr.IsCode(readPayload("", &v), appErr.CodeValidation))
}

func TestReportErrorListsFields(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, appErr.Validation(map[string]string{"title": "is required", "location": "is required"}))

	out := buf.String()
	assert.Contains(t, out, "  location: is required\n  title: is required\n")
	assert.Contains(t, out, "error: ")
}
