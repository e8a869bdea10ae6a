package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-locator/framework/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:          "locator",
		Short:        "Lazy service locator with an HTTP inspector",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default .env)")

	root.AddCommand(
		newServeCmd(&envFiles),
		newListCmd(&envFiles),
	)
	return root
}

// boot builds the application with the demo services and boots every provider.
func boot(envFiles []string) (*app.Application, error) {
	application, err := app.New(app.Options{EnvFiles: envFiles})
	if err != nil {
		return nil, err
	}
	if err := application.Register(&GreeterServiceProvider{}); err != nil {
		return nil, err
	}
	if err := application.Boot(); err != nil {
		return nil, err
	}
	return application, nil
}

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the registered routes and the container inspector",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := boot(*envFiles)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}
}

func newListCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := boot(*envFiles)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tFACTORY\tFROZEN")
			for _, e := range application.Entries() {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\n", e.Name, e.Kind, e.Factory, e.Frozen)
			}
			return tw.Flush()
		},
	}
}
