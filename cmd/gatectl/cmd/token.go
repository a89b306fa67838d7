package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shoplive/access-gate/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		role    string
		subject string
		ttl     time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := auth.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q (want admin, seller or user)", role)
			}
			key, err := resolveSecret()
			if err != nil {
				return err
			}

			token, exp, err := auth.NewTokenManager(key, ttl).GenerateToken(subject, parsed, 0)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.Format(time.RFC3339))
			return nil
		},
	}

	c.Flags().StringVar(&role, "role", "user", "role claim (admin, seller, user)")
	c.Flags().StringVar(&subject, "subject", "dev", "subject claim")
	c.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return c
}
