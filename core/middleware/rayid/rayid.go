package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the ray id on requests and responses.
	HeaderName = "X-Ray-ID"
	// LocalsKey is the fiber.Ctx locals key holding the ray id.
	LocalsKey = "ray_id"
)

// New returns a middleware assigning a ray id to every request.
// An incoming X-Ray-ID header is reused; otherwise a UUID is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}

// Get returns the ray id of the current request, if any.
func Get(c *fiber.Ctx) string {
	rid, _ := c.Locals(LocalsKey).(string)
	return rid
}
