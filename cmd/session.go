package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sessionCmd groups ERP session commands.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage the cached ERP session",
}

var sessionLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Ensure a valid ERP session, logging in when the cache is stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := rt.sessions.EnsureValid(ctx)
		if err != nil {
			return err
		}
		rt.logger.Info("ERP session ready",
			zap.Time("created_at", s.CreatedAt),
			zap.Time("expires_at", s.ExpiresAt))
		return nil
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cached ERP session without logging in",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		s, err := rt.store.Load(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if s == nil {
			fmt.Fprintln(out, "no cached session")
			return nil
		}
		now := time.Now()
		state := "expired"
		if s.Valid(now) {
			state = fmt.Sprintf("valid for %s", s.ExpiresAt.Sub(now).Round(time.Second))
		}
		fmt.Fprintf(out, "store:      %s\ncreated at: %s\nexpires at: %s\nstate:      %s\n",
			rt.cfg.Session.Store, s.CreatedAt.Format(time.RFC3339), s.ExpiresAt.Format(time.RFC3339), state)
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionLoginCmd, sessionStatusCmd)
	RootCmd.AddCommand(sessionCmd)
}
