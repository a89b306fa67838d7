package upstream

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoplive/access-gate/internal/config"
	apperrors "github.com/shoplive/access-gate/pkg/util/errorutil"
)

func newFrontend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, _ := r.Cookie("accessToken")
		value := ""
		if cookie != nil {
			value = cookie.Value
		}
		w.Header().Set("X-Frontend", "next")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, r.Method+" "+r.URL.RequestURI()+" "+value)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRelayForwardsRequest(t *testing.T) {
	frontend := newFrontend(t, http.StatusOK)
	relay := NewRelay(config.UpstreamConfig{URL: frontend.URL, TimeoutSeconds: 5}, zap.NewNop())

	app := fiber.New()
	app.Use(relay.Handle)

	req := httptest.NewRequest(http.MethodGet, "/seller/products?page=2", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "next", resp.Header.Get("X-Frontend"))
	assert.Equal(t, "GET /seller/products?page=2 tok", string(body))
}

func TestRelayForwardsResolvedPath(t *testing.T) {
	frontend := newFrontend(t, http.StatusOK)
	relay := NewRelay(config.UpstreamConfig{URL: frontend.URL, TimeoutSeconds: 5}, zap.NewNop())

	var relayErr error
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			relayErr = err
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(relay.Handle)

	tests := map[string]string{
		"/%61dmin/users?x=1": "GET /admin/users?x=1 ",
		"/user/%2e%2e/admin": "GET /admin ",
		"/a%2520b":           "GET /a%2520b ",
		"/seller//products/": "GET /seller/products ",
	}
	for raw, want := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, raw, nil), -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, raw)
		assert.Equal(t, want, string(body), raw)
	}
	require.NoError(t, relayErr)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin%2Fusers", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", apperrors.ToDomainError(relayErr).Code)
}

func TestRelayUnavailableUpstream(t *testing.T) {
	relay := NewRelay(config.UpstreamConfig{URL: "http://127.0.0.1:1", TimeoutSeconds: 2}, zap.NewNop())

	var relayErr error
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			relayErr = err
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(relay.Handle)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Error(t, relayErr)
	assert.Equal(t, "BAD_GATEWAY", apperrors.ToDomainError(relayErr).Code)
}

func TestRelayPing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	healthy := NewRelay(config.UpstreamConfig{URL: newFrontend(t, http.StatusOK).URL}, zap.NewNop())
	assert.NoError(t, healthy.Ping(ctx))

	failing := NewRelay(config.UpstreamConfig{URL: newFrontend(t, http.StatusInternalServerError).URL}, zap.NewNop())
	assert.Error(t, failing.Ping(ctx))

	down := NewRelay(config.UpstreamConfig{URL: "http://127.0.0.1:1"}, zap.NewNop())
	assert.Error(t, down.Ping(ctx))
}
