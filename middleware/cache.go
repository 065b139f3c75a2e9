package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// Cache serves repeated GET requests from store. Only 2xx responses are kept.
func Cache(store *cache.Cache, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := c.OriginalURL()
		if v, found := store.Get(key); found {
			cached := v.(cachedResponse)
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, cached.contentType)
			return c.Status(cached.status).Send(cached.body)
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= 200 && status < 300 {
			store.Set(key, cachedResponse{
				status:      status,
				contentType: string(c.Response().Header.ContentType()),
				body:        append([]byte(nil), c.Response().Body()...),
			}, ttl)
		}
		return nil
	}
}
