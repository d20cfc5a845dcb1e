package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePool struct{ acquired, idle, total int32 }

func (f fakePool) AcquiredConns() int32 { return f.acquired }
func (f fakePool) IdleConns() int32     { return f.idle }
func (f fakePool) TotalConns() int32    { return f.total }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakePool{acquired: 3, idle: 7, total: 10})

	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsAcquired))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBPoolConnsIdle))
	assert.Equal(t, 10.0, testutil.ToFloat64(DBPoolConnsOpen))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/v1/pois/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/pois/:id", "200"))
	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/v1/pois/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/pois/:id", "200"))
	assert.Equal(t, 2.0, after-before)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "kamertour_http_requests_total"))
}
