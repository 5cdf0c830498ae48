package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// resource describes one entity's command group.
type resource[T any] struct {
	use     string
	short   string
	manager func(a *app) *lifecycle.Manager[T]
	// create reads the --data file into the entity's form and sends it with files.
	create func(ctx context.Context, a *app, path string, files []client.File) (*T, error)
	// form returns the zero form an update patch is checked against.
	form func() any
	// stored, when set, returns the form pre-filled from the record being updated so
	// that rules spanning several fields see the values the patch leaves out.
	stored func(ctx context.Context, a *app, id string) (any, error)
	// update, when set, replaces the default check-and-send of a patch.
	update func(ctx context.Context, a *app, id string, p forms.Patch, files []client.File) (*T, error)
}

// patch checks raw the way the resource asks for and sends it.
func (r resource[T]) patch(ctx context.Context, a *app, id string, raw forms.Patch, files []client.File) (*T, error) {
	if r.update != nil {
		return r.update(ctx, a, id, raw, files)
	}
	var (
		p   forms.Patch
		err error
	)
	if r.stored != nil {
		base, serr := r.stored(ctx, a, id)
		if serr != nil {
			return nil, serr
		}
		p, err = forms.ValidatePatchOn(base, id, raw)
	} else {
		p, err = forms.ValidatePatch(r.form(), id, raw)
	}
	if err != nil {
		return nil, err
	}
	return r.manager(a).Update(ctx, id, p, files...)
}

func (r resource[T]) command(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Short: r.short}
	cmd.AddCommand(r.listCmd(a), r.getCmd(a), r.createCmd(a), r.updateCmd(a), r.deleteCmd(a), r.downloadCmd(a))
	return cmd
}

func (r resource[T]) listCmd(a *app) *cobra.Command {
	var (
		page, limit int
		filters     []string
		inactive    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of " + r.use,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.Query{Page: page, Limit: limit, Filters: map[string]string{}}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok || k == "" {
					return appErr.Validation(map[string]string{"filter": "expected key=value, got " + f})
				}
				q.Filters[k] = v
			}
			if inactive {
				q.Filters["include_inactive"] = "true"
			}
			m := r.manager(a)
			m.SetQuery(q)
			if err := m.Refresh(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), m.Page())
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (defaults to PAGE_LIMIT)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "field filter key=value, repeatable")
	cmd.Flags().BoolVar(&inactive, "include-inactive", false, "include deactivated records")
	return cmd
}

func (r resource[T]) getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.manager(a).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

func (r resource[T]) createCmd(a *app) *cobra.Command {
	var (
		data  string
		files []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, closeAll, err := openFiles(files)
			if err != nil {
				return err
			}
			defer closeAll()
			v, err := r.create(cmd.Context(), a, data, parts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON payload file, - for stdin")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment as [field=]path, repeatable")
	return cmd
}

func (r resource[T]) updateCmd(a *app) *cobra.Command {
	var (
		data  string
		files []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply a partial update from a JSON file; absent fields keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw forms.Patch
			if err := readPayload(data, &raw); err != nil {
				return err
			}
			parts, closeAll, err := openFiles(files)
			if err != nil {
				return err
			}
			defer closeAll()
			v, err := r.patch(cmd.Context(), a, args[0], raw, parts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "JSON payload file, - for stdin")
	cmd.Flags().StringArrayVar(&files, "file", nil, "attachment as [field=]path, repeatable")
	return cmd
}

func (r resource[T]) deleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete (or deactivate) a record after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := r.manager(a)
			if err := m.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			verb := "Deleted"
			if m.Policy().DeleteMode == lifecycle.SoftDelete {
				verb = "Deactivated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			return nil
		},
	}
}

func (r resource[T]) downloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download <path>",
		Short: "Save an attachment into DOWNLOAD_DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := r.manager(a).Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dst)
			return nil
		},
	}
}

// readForm loads the --data file over the defaults already in f. Values the form's
// discriminants hide are refused rather than dropped.
func readForm(path string, f any) error {
	if err := readPayload(path, f); err != nil {
		return err
	}
	if h, ok := f.(interface{ RejectHidden() error }); ok {
		return h.RejectHidden()
	}
	return nil
}

func noFiles(files []client.File) error {
	if len(files) > 0 {
		return appErr.Validation(map[string]string{"file": "this resource takes no attachments"})
	}
	return nil
}

func projectsCmd(a *app) *cobra.Command {
	return resource[models.Project]{
		use:     "projects",
		short:   "Manage projects",
		manager: func(a *app) *lifecycle.Manager[models.Project] { return a.managers.Projects },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.Project, error) {
			f := forms.NewProjectForm()
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			payload, err := f.Submit()
			if err != nil {
				return nil, err
			}
			return a.managers.Projects.Create(ctx, payload, files...)
		},
		form: func() any { return &forms.ProjectForm{} },
	}.command(a)
}

func schemesCmd(a *app) *cobra.Command {
	cmd := resource[models.Scheme]{
		use:     "schemes",
		short:   "Manage payment schemes",
		manager: func(a *app) *lifecycle.Manager[models.Scheme] { return a.managers.Schemes },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.Scheme, error) {
			if err := noFiles(files); err != nil {
				return nil, err
			}
			f := forms.NewSchemeForm("")
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			payload, err := f.Submit()
			if err != nil {
				return nil, err
			}
			return a.managers.Schemes.Create(ctx, payload)
		},
		form: func() any { return &forms.SchemeForm{} },
		stored: func(ctx context.Context, a *app, id string) (any, error) {
			s, err := a.managers.Schemes.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return forms.EditSchemeForm(*s), nil
		},
	}.command(a)
	cmd.AddCommand(schemesForProjectCmd(a))
	return cmd
}

func unitsCmd(a *app) *cobra.Command {
	return resource[models.PurchasedUnit]{
		use:     "units",
		short:   "Manage purchased units",
		manager: func(a *app) *lifecycle.Manager[models.PurchasedUnit] { return a.managers.Units },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.PurchasedUnit, error) {
			if err := noFiles(files); err != nil {
				return nil, err
			}
			f := forms.NewUnitForm()
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			return a.units.Create(ctx, f)
		},
		form: func() any { return &forms.UnitForm{} },
		update: func(ctx context.Context, a *app, id string, p forms.Patch, files []client.File) (*models.PurchasedUnit, error) {
			if err := noFiles(files); err != nil {
				return nil, err
			}
			return a.units.Patch(ctx, id, p)
		},
	}.command(a)
}

func agreementsCmd(a *app) *cobra.Command {
	cmd := resource[models.LegalAgreement]{
		use:     "agreements",
		short:   "Manage legal agreements",
		manager: func(a *app) *lifecycle.Manager[models.LegalAgreement] { return a.managers.Agreements },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.LegalAgreement, error) {
			if len(files) > 1 {
				return nil, appErr.Validation(map[string]string{"file": "an agreement takes exactly one file"})
			}
			f := forms.NewAgreementForm("")
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			var file client.File
			if len(files) == 1 {
				file = files[0]
			}
			return a.agreements.Create(ctx, f, file)
		},
		form: func() any { return &forms.AgreementForm{} },
	}.command(a)
	cmd.AddCommand(agreementsByUnitCmd(a), agreementFileCmd(a))
	return cmd
}

func agentsCmd(a *app) *cobra.Command {
	cmd := resource[models.Agent]{
		use:     "agents",
		short:   "Manage sales agents",
		manager: func(a *app) *lifecycle.Manager[models.Agent] { return a.managers.Agents },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.Agent, error) {
			f := forms.NewAgentForm()
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			return a.agents.Create(ctx, f, files...)
		},
		form: func() any { return &forms.AgentForm{} },
	}.command(a)
	cmd.AddCommand(agentDocumentsCmd(a))
	return cmd
}

func contactsCmd(a *app) *cobra.Command {
	return resource[models.ContactInfo]{
		use:     "contacts",
		short:   "Manage company contact details",
		manager: func(a *app) *lifecycle.Manager[models.ContactInfo] { return a.managers.Contacts },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.ContactInfo, error) {
			if err := noFiles(files); err != nil {
				return nil, err
			}
			f := &forms.ContactForm{}
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			payload, err := f.Submit()
			if err != nil {
				return nil, err
			}
			return a.managers.Contacts.Create(ctx, payload)
		},
		form: func() any { return &forms.ContactForm{} },
		stored: func(ctx context.Context, a *app, id string) (any, error) {
			c, err := a.managers.Contacts.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return forms.EditContactForm(*c), nil
		},
	}.command(a)
}

func adminsCmd(a *app) *cobra.Command {
	return resource[models.Admin]{
		use:     "admins",
		short:   "Manage console administrators",
		manager: func(a *app) *lifecycle.Manager[models.Admin] { return a.managers.Admins },
		create: func(ctx context.Context, a *app, path string, files []client.File) (*models.Admin, error) {
			if err := noFiles(files); err != nil {
				return nil, err
			}
			f := forms.NewAdminForm()
			if err := readForm(path, f); err != nil {
				return nil, err
			}
			payload, err := f.Submit()
			if err != nil {
				return nil, err
			}
			return a.managers.Admins.Create(ctx, payload)
		},
		form: func() any { return &forms.AdminForm{} },
	}.command(a)
}
