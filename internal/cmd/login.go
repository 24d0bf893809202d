package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwellingly/dwellingly-cli/internal/config"
	"github.com/dwellingly/dwellingly-cli/internal/session"
)

// RunInteractiveLogin prompts for a bearer token and persists it to the config.
func RunInteractiveLogin(in io.Reader, out io.Writer, apiURL string) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "token: ")
	token, _ := reader.ReadString('\n')
	sess := session.New(token)
	if !sess.Valid() {
		return fmt.Errorf("token is required")
	}

	cfg, err := config.Read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	cfg.Token = sess.Token
	if apiURL = strings.TrimSpace(apiURL); apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if claims, err := sess.Claims(); err == nil && claims.Subject != "" {
		fmt.Fprintf(out, "logged in as %s\n", claims.Subject)
	} else {
		fmt.Fprintln(out, "token saved (claims not readable)")
	}
	fmt.Fprintf(out, "config saved to %s\n", config.Path())
	return nil
}

// LoginCmd returns the `dwellingly login` command.
func LoginCmd() *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for the Dwellingly API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunInteractiveLogin(cmd.InOrStdin(), cmd.OutOrStdout(), apiURL)
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "", "API base URL to save with the token")
	return cmd
}
