package gate

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/shoplive/access-gate/internal/auth"
)

// RuleTable maps a role to the path prefixes it may access.
type RuleTable map[auth.Role][]string

// DefaultRules is the ShopLive access rule table. User profile pages live under
// /user/profile and are covered by the /user prefix.
func DefaultRules() RuleTable {
	return RuleTable{
		auth.RoleAdmin:  {"/admin"},
		auth.RoleSeller: {"/seller"},
		auth.RoleUser:   {"/user", "/products", "/reservations"},
	}
}

// DefaultHomes maps each role to the page it lands on when denied.
func DefaultHomes() map[auth.Role]string {
	return map[auth.Role]string{
		auth.RoleAdmin:  "/admin/dashboard",
		auth.RoleSeller: "/seller/dashboard",
		auth.RoleUser:   "/user/products",
	}
}

// DefaultPublicRoutes are reachable without a credential.
func DefaultPublicRoutes() []string {
	return []string{"/", "/login", "/register"}
}

// DefaultExcludedPrefixes are never handed to the gate.
func DefaultExcludedPrefixes() []string {
	return []string{"/api", "/_next/static", "/_next/image", "/favicon.ico", "/_gate"}
}

// Governs reports whether any role has a prefix matching p.
func (t RuleTable) Governs(p string) bool {
	for _, prefixes := range t {
		if hasAnyPrefix(p, prefixes) {
			return true
		}
	}
	return false
}

// Allows reports whether role has a prefix matching p.
func (t RuleTable) Allows(role auth.Role, p string) bool {
	return hasAnyPrefix(p, t[role])
}

func (t RuleTable) clone() RuleTable {
	out := make(RuleTable, len(t))
	for role, prefixes := range t {
		out[role] = append([]string(nil), prefixes...)
	}
	return out
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// matchesRoute is true when p equals route or lies beneath it.
func matchesRoute(p, route string) bool {
	if route == "/" {
		return p == "/"
	}
	return p == route || strings.HasPrefix(p, route+"/")
}

// IsExcluded reports whether the raw path belongs to a path family the gate never
// sees. Paths that fail to resolve are never excluded.
func IsExcluded(raw string, prefixes []string) bool {
	p, err := ResolvePath(raw)
	if err != nil {
		return false
	}
	for _, prefix := range prefixes {
		if matchesRoute(p, prefix) {
			return true
		}
	}
	return false
}

// ResolvePath percent-decodes a raw request path and normalizes it, producing the
// path both the gate and the upstream relay act on. Encoded slashes and
// backslashes are rejected since routers disagree on how to split them.
func ResolvePath(raw string) (string, error) {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c") || strings.Contains(raw, `\`) {
		return "", ErrMalformedPath
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPath, err)
	}
	if strings.ContainsRune(decoded, 0) {
		return "", ErrMalformedPath
	}
	return NormalizePath(decoded), nil
}

// NormalizePath returns a rooted, cleaned path without a trailing slash.
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
