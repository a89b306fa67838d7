package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoplive/access-gate/internal/auth"
	"github.com/shoplive/access-gate/internal/gate"
)

func newCheckCmd() *cobra.Command {
	var (
		path  string
		token string
	)

	c := &cobra.Command{
		Use:   "check",
		Short: "Show the gate decision for a path and token",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveSecret()
			if err != nil {
				return err
			}
			g, err := gate.New(gate.Options{Verifier: auth.NewTokenManager(key, 0)})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if gate.IsExcluded(path, gate.DefaultExcludedPrefixes()) {
				resolved, _ := gate.ResolvePath(path)
				fmt.Fprintf(out, "path:     %s\noutcome:  excluded\n", resolved)
				return nil
			}

			d := g.Decide(path, token)
			fmt.Fprintf(out, "path:     %s\noutcome:  %s\nreason:   %s\n", d.Path, d.Outcome, gate.ReasonCode(d.Reason))
			if d.Role != "" {
				fmt.Fprintf(out, "role:     %s\n", d.Role)
			}
			if d.Location != "" {
				fmt.Fprintf(out, "location: %s\n", d.Location)
			}
			if d.ClearCredential {
				fmt.Fprintf(out, "cookie:   %s cleared\n", gate.CookieName)
			}
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "/", "request path")
	c.Flags().StringVar(&token, "token", "", "access token cookie value")
	return c
}
