package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoplive/access-gate/internal/config"
	"github.com/shoplive/access-gate/internal/gate"
	apperrors "github.com/shoplive/access-gate/pkg/util/errorutil"
)

const defaultPingTimeout = 2 * time.Second

// Relay forwards requests that passed the gate to the page renderer.
type Relay struct {
	base    string
	timeout time.Duration
	client  *fasthttp.Client
	logger  *zap.Logger
}

// NewRelay builds a relay for the configured upstream.
func NewRelay(cfg config.UpstreamConfig, logger *zap.Logger) *Relay {
	return &Relay{
		base:    cfg.URL,
		timeout: cfg.Timeout(),
		client: &fasthttp.Client{
			NoDefaultUserAgentHeader: true,
			DisablePathNormalizing:   true,
		},
		logger: logger,
	}
}

// Handle relays the current request, preserving method, headers, body and query.
// The path sent upstream is the one the gate resolved, re-escaped, so the
// renderer routes exactly what was authorized.
func (r *Relay) Handle(c *fiber.Ctx) error {
	target, err := r.target(c)
	if err != nil {
		return apperrors.NewBadRequest("malformed request path", map[string]any{"path": c.Path()})
	}

	if r.timeout > 0 {
		err = proxy.DoTimeout(c, target, r.timeout, r.client)
	} else {
		err = proxy.Do(c, target, r.client)
	}
	if err == nil {
		return nil
	}

	r.logger.Error("upstream relay failed", zap.String("target", target), zap.Error(err))
	if errors.Is(err, fasthttp.ErrTimeout) {
		return apperrors.NewGatewayTimeout(err)
	}
	return apperrors.NewBadGateway(err)
}

func (r *Relay) target(c *fiber.Ctx) (string, error) {
	p, err := gate.ResolvePath(c.Path())
	if err != nil {
		return "", err
	}
	target := r.base + (&url.URL{Path: p}).EscapedPath()
	if query := c.Request().URI().QueryString(); len(query) > 0 {
		target += "?" + string(query)
	}
	return target, nil
}

// Ping checks that the upstream answers. Server errors count as unavailable.
func (r *Relay) Ping(ctx context.Context) error {
	timeout := defaultPingTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.base + "/")
	req.Header.SetMethod(fiber.MethodHead)

	if err := r.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	if resp.StatusCode() >= fiber.StatusInternalServerError {
		return fmt.Errorf("ping upstream: status %d", resp.StatusCode())
	}
	return nil
}
