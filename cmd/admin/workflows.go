package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func schemesForProjectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "for-project <project-id>",
		Short: "List the active schemes a unit of the project can use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.units.SelectProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			snap := a.units.Schemes()
			if snap.Err != nil {
				return snap.Err
			}
			return printJSON(cmd.OutOrStdout(), snap.Children)
		},
	}
}

func agreementsByUnitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "by-unit <unit-id>",
		Short: "List the agreements of one purchased unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := a.agreements.ListByUnit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
}

func agreementFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "file <id>",
		Short: "Download the signed file of an agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ag, err := a.managers.Agreements.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			dst, err := a.agreements.Download(cmd.Context(), *ag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", dst)
			return nil
		},
	}
}

func agentDocumentsCmd(a *app) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "documents <id>",
		Short: "List an agent's KYC documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.agents.Documents(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !save {
				return printJSON(cmd.OutOrStdout(), docs)
			}
			for _, d := range docs {
				dst, err := a.agents.DownloadDocument(cmd.Context(), d)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.DisplayName, dst)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "download every document into DOWNLOAD_DIR")
	return cmd
}
