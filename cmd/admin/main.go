package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Ramya Constructions admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&a.assumeYes, "yes", "y", false, "approve destructive actions without prompting")

	rootCmd.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		projectsCmd(a),
		schemesCmd(a),
		unitsCmd(a),
		agreementsCmd(a),
		agentsCmd(a),
		contactsCmd(a),
		adminsCmd(a),
	)
	return rootCmd
}
