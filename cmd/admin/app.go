package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/auth"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/services"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/config"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// app is the state every command shares. It is built once, before the first command runs.
type app struct {
	cfg        *config.Config
	api        *client.API
	managers   *services.Managers
	units      services.UnitWorkflow
	agreements services.AgreementWorkflow
	agents     services.AgentWorkflow
	assumeYes  bool
}

func (a *app) setup() error {
	if a.api != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// stdout carries command output, so logs go to stderr.
	if _, err := logger.InitWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		return err
	}

	session, err := auth.NewSession(auth.NewFileStore(cfg.SessionFile))
	if err != nil {
		return err
	}
	c, err := client.New(client.Config{
		WriteBaseURL: cfg.WriteAPIURL,
		ReadBaseURL:  cfg.ReadAPIURL,
		Timeout:      cfg.HTTPTimeout,
		RPS:          cfg.ClientRPS,
		Burst:        cfg.ClientBurst,
		PageLimit:    cfg.PageLimit,
	}, session)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.wire(c, cfg.DownloadDir)
	return nil
}

// wire builds the managers and workflows over c.
func (a *app) wire(c *client.Client, downloadDir string) {
	a.api = client.NewAPI(c)
	a.managers = services.NewManagers(a.api, lifecycle.ConfirmFunc(a.confirm), lifecycle.DirSaver{Dir: downloadDir})
	a.units = services.NewUnitWorkflow(a.api.Schemes, a.managers.Units)
	a.agreements = services.NewAgreementWorkflow(a.api.Units, a.managers.Agreements)
	a.agents = services.NewAgentWorkflow(a.managers.Agents)
}

func (a *app) confirm(ctx context.Context, prompt string) (bool, error) {
	if a.assumeYes {
		return true, nil
	}
	return lifecycle.PromptConfirmer{In: os.Stdin, Out: os.Stderr}.Confirm(ctx, prompt)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError prints err the way a form would show it: field problems one per line,
// then the summary.
func reportError(w io.Writer, err error) {
	fb := forms.ApplyServerError(err)
	if fe, ok := services.AsFormError(err); ok {
		fb = fe.Feedback
	}
	if ae, ok := appErr.As(err); ok && len(fb.Fields) == 0 {
		fb.Fields = ae.Fields
	}
	keys := make([]string, 0, len(fb.Fields))
	for k := range fb.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fb.Fields[k])
	}
	msg := fb.Form
	if msg == "" {
		msg = appErr.UserMessage(err)
	}
	fmt.Fprintln(w, "error:", msg)
}

// readPayload loads the JSON object in path ("-" for stdin) into v.
func readPayload(path string, v any) error {
	if path == "" {
		return appErr.Validation(map[string]string{"data": "is required"})
	}
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return appErr.Wrap(err, appErr.CodeValidation, "payload is not a valid JSON object")
	}
	return nil
}

// openFiles turns --file values of the form [field=]path into upload parts. The caller
// closes them.
func openFiles(specs []string) ([]client.File, func(), error) {
	var files []client.File
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
	for _, spec := range specs {
		field, path := "", spec
		if i := strings.Index(spec, "="); i > 0 {
			field, path = spec[:i], spec[i+1:]
		}
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil, appErr.Validation(map[string]string{"file": path + " does not exist"})
			}
			return nil, nil, err
		}
		closers = append(closers, f)
		ct := mime.TypeByExtension(filepath.Ext(path))
		if ct == "" {
			ct = "application/octet-stream"
		}
		files = append(files, client.File{Field: field, Name: filepath.Base(path), ContentType: ct, Content: f})
	}
	return files, closeAll, nil
}
