package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokenThenCheck(t *testing.T) {
	out, err := run(t, "token", "--secret", "cli-secret", "--role", "SELLER", "--subject", "9")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	out, err = run(t, "check", "--secret", "cli-secret", "--path", "/admin/users", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:  role_home_redirect")
	assert.Contains(t, out, "location: /seller/dashboard")

	out, err = run(t, "check", "--secret", "cli-secret", "--path", "/seller/products", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:  forwarded")
}

func TestCheckWithoutToken(t *testing.T) {
	out, err := run(t, "check", "--secret", "cli-secret", "--path", "/user/products", "--token", "")
	require.NoError(t, err)
	assert.Contains(t, out, "reason:   missing_credential")
	assert.Contains(t, out, "location: /login?redirect=%2Fuser%2Fproducts")

	out, err = run(t, "check", "--secret", "cli-secret", "--path", "/api/orders")
	require.NoError(t, err)
	assert.Contains(t, out, "outcome:  excluded")
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	_, err := run(t, "token", "--secret", "cli-secret", "--role", "staff")
	require.Error(t, err)
}
