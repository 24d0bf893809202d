package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dwellingly/dwellingly-cli/internal/config"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// WhoamiCmd returns the `dwellingly whoami` command.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored token's subject and expiry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("not logged in: %w", err)
			}
			sess := session.New(cfg.Token)
			claims, err := sess.Claims()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			subject := claims.Subject
			if subject == "" {
				subject = "(unknown)"
			}
			fmt.Fprintf(out, "subject: %s\n", subject)
			fmt.Fprintf(out, "api:     %s\n", cfg.APIURL)
			if !claims.IssuedAt.IsZero() {
				fmt.Fprintf(out, "issued:  %s\n", claims.IssuedAt.Format(time.RFC3339))
			}
			switch {
			case claims.ExpiresAt.IsZero():
				fmt.Fprintln(out, "expires: never")
			case sess.Expired(time.Now()):
				fmt.Fprintf(out, "expires: %s (expired, run 'dwellingly login')\n", claims.ExpiresAt.Format(time.RFC3339))
			default:
				fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
