// Package cli defines the command-line interface for the NaijaReels client.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/NaijaReels/naijareels-go/internal/application/container"
	"github.com/NaijaReels/naijareels-go/internal/domain/authz"
)

var (
	app     *container.Container
	rootCtx context.Context
)

var rootCmd = &cobra.Command{
	Use:   "naijareels",
	Short: "NaijaReels movie rental client.",
	Long: `Command-line client for the NaijaReels movie rental marketplace.

Browse the catalog, rent and return movies, and manage inventory or users
depending on your role. The client keeps a local session so you stay signed
in between invocations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		app, err = container.NewContainer(container.Options{
			BaseURL: backendFlag,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize client: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		rootCtx = ctx

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-interrupt
			cancel()
		}()
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if app != nil {
			_ = app.Close()
		}
	},
}

var backendFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"Backend base URL (defaults to NAIJAREELS_API_URL)")
}

// requireView gates a role-scoped command on the current session before any
// request goes out. The backend still enforces the same rule server-side.
func requireView(view authz.View) error {
	snapshot := app.SessionStore.Snapshot()
	if authz.CanAccess(view, snapshot) {
		return nil
	}
	if !snapshot.Authenticated {
		return fmt.Errorf("you must sign in first: run 'naijareels login'")
	}
	return fmt.Errorf("your role does not allow access to %s", view)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
