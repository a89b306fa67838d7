package gate

import (
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/shoplive/access-gate/internal/auth"
)

// Outcome is the terminal state a request reaches in the gate.
type Outcome int

const (
	PublicAllowed Outcome = iota + 1
	Forwarded
	LoginRedirect
	RoleHomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case PublicAllowed:
		return "public_allowed"
	case Forwarded:
		return "forwarded"
	case LoginRedirect:
		return "login_redirect"
	case RoleHomeRedirect:
		return "role_home_redirect"
	default:
		return "unknown"
	}
}

// Redirects reports whether the outcome ends the request with a redirect.
func (o Outcome) Redirects() bool {
	return o == LoginRedirect || o == RoleHomeRedirect
}

// Verifier checks a credential's signature and expiry.
type Verifier interface {
	ParseToken(token string) (*auth.Claims, error)
}

// Decision is the result of evaluating one request.
type Decision struct {
	Outcome Outcome
	// Path is the normalized request path.
	Path string
	// Location is set for redirect outcomes.
	Location string
	// ClearCredential asks the transport to delete the credential cookie.
	ClearCredential bool
	Role            auth.Role
	Subject         string
	// Reason is one of the Err* denial reasons, nil when the request passes.
	Reason error
}

// Options configures a Gate. Nil or empty fields fall back to the defaults in rules.go.
type Options struct {
	Verifier     Verifier
	Rules        RuleTable
	Homes        map[auth.Role]string
	PublicRoutes []string
	LoginPath    string
	Logger       *zap.Logger
}

// Gate decides, per request, whether to forward or redirect. It holds no mutable
// state and is safe for concurrent use.
type Gate struct {
	verifier  Verifier
	rules     RuleTable
	homes     map[auth.Role]string
	public    []string
	loginPath string
	logger    *zap.Logger
}

// New builds a Gate from opts.
func New(opts Options) (*Gate, error) {
	if opts.Verifier == nil {
		return nil, errors.New("gate: verifier is required")
	}

	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}
	homes := opts.Homes
	if homes == nil {
		homes = DefaultHomes()
	}
	public := opts.PublicRoutes
	if public == nil {
		public = DefaultPublicRoutes()
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for role := range rules {
		if !role.Valid() {
			return nil, errors.New("gate: rule table contains unknown role " + role.String())
		}
	}

	normalizedPublic := make([]string, len(public))
	for i, route := range public {
		normalizedPublic[i] = NormalizePath(route)
	}
	copiedHomes := make(map[auth.Role]string, len(homes))
	for role, home := range homes {
		copiedHomes[role] = home
	}

	return &Gate{
		verifier:  opts.Verifier,
		rules:     rules.clone(),
		homes:     copiedHomes,
		public:    normalizedPublic,
		loginPath: NormalizePath(loginPath),
		logger:    logger,
	}, nil
}

// IsPublic reports whether p is reachable without a credential.
func (g *Gate) IsPublic(p string) bool {
	p = NormalizePath(p)
	for _, route := range g.public {
		if matchesRoute(p, route) {
			return true
		}
	}
	return false
}

// Decide evaluates a raw (still percent-encoded) request path and the raw
// credential, empty when absent.
func (g *Gate) Decide(rawPath, token string) Decision {
	p, err := ResolvePath(rawPath)
	if err != nil {
		g.logger.Warn("malformed request path", zap.String("path", rawPath), zap.Error(err))
		return Decision{
			Outcome:  LoginRedirect,
			Path:     rawPath,
			Location: g.loginPath,
			Reason:   ErrMalformedPath,
		}
	}

	if g.IsPublic(p) {
		return Decision{Outcome: PublicAllowed, Path: p}
	}

	if token == "" {
		return Decision{
			Outcome:  LoginRedirect,
			Path:     p,
			Location: g.loginWithReturn(p),
			Reason:   ErrMissingCredential,
		}
	}

	claims, err := g.verifier.ParseToken(token)
	if err != nil {
		g.logger.Warn("credential verification failed", zap.String("path", p), zap.Error(err))
		return Decision{
			Outcome:         LoginRedirect,
			Path:            p,
			Location:        g.loginPath,
			ClearCredential: true,
			Reason:          ErrInvalidCredential,
		}
	}

	// Normalized here, once; an unrecognized role stays empty.
	role, known := auth.ParseRole(claims.Role)
	forward := Decision{Outcome: Forwarded, Path: p, Role: role, Subject: claims.Subject}
	if !g.rules.Governs(p) {
		return forward
	}

	if !known {
		g.logger.Warn("credential carries unrecognized role",
			zap.String("path", p),
			zap.String("role", claims.Role),
			zap.String("subject", claims.Subject),
		)
		return Decision{
			Outcome:  LoginRedirect,
			Path:     p,
			Location: g.loginPath,
			Subject:  claims.Subject,
			Reason:   ErrUnrecognizedRole,
		}
	}

	if g.rules.Allows(role, p) {
		return forward
	}

	g.logger.Warn("unauthorized access attempt",
		zap.String("path", p),
		zap.String("role", role.String()),
		zap.String("subject", claims.Subject),
	)
	home, ok := g.homes[role]
	if !ok {
		home = g.loginPath
	}
	return Decision{
		Outcome:  RoleHomeRedirect,
		Path:     p,
		Location: home,
		Role:     role,
		Subject:  claims.Subject,
		Reason:   ErrUnauthorizedRole,
	}
}

// LocationWithQuery carries the request's query parameters over to the redirect
// target. Parameters already set on the target take precedence.
func (d Decision) LocationWithQuery(rawQuery string) string {
	if rawQuery == "" || d.Location == "" {
		return d.Location
	}
	loc, err := url.Parse(d.Location)
	if err != nil {
		return d.Location
	}
	merged, _ := url.ParseQuery(rawQuery)
	for key, values := range loc.Query() {
		merged[key] = values
	}
	loc.RawQuery = merged.Encode()
	return loc.String()
}

func (g *Gate) loginWithReturn(p string) string {
	return g.loginPath + "?" + url.Values{"redirect": {p}}.Encode()
}
