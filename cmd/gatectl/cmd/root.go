package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shoplive/access-gate/internal/config"
)

var secret string

var rootCmd = &cobra.Command{
	Use:   "gatectl",
	Short: "ShopLive access gate operator CLI",
	Long: `gatectl mints development credentials and explains the access gate's
decision for a path, using the same rule table as the server.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&secret, "secret", "", "signing secret (defaults to JWT_SECRET_KEY)")
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newCheckCmd())
}

func resolveSecret() (string, error) {
	if secret != "" {
		return secret, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.Auth.SecretFromDefault {
		fmt.Fprintln(os.Stderr, "warning: JWT_SECRET_KEY not set, using the development secret")
	}
	return cfg.Auth.JWTSecret, nil
}
