package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control on GET responses that the
// handler left without one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Get(fiber.HeaderCacheControl) != "" ||
			len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

func cacheControlFor(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "no-store"
	case path == "/metrics" || path == "/v1/stats":
		return "no-cache"
	case path == "/v1/categories":
		return "public, max-age=86400"
	case strings.HasPrefix(path, "/v1/comments") || strings.HasPrefix(path, "/v1/moderation"),
		strings.HasPrefix(path, "/v1/users/"),
		strings.HasSuffix(path, "/duplicates"):
		return "private, no-cache"
	case strings.HasSuffix(path, "/comments"):
		return "public, max-age=60"
	case strings.HasPrefix(path, "/v1/pois/nearby"),
		strings.HasSuffix(path, "/nearby"),
		strings.HasSuffix(path, "/nearest"),
		strings.HasSuffix(path, "/route"):
		return "public, max-age=300"
	case strings.HasPrefix(path, "/v1/pois/"):
		return "public, max-age=600"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=60"
	}
	return ""
}
