package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var DefaultAllowedOrigins = []string{
	"https://rallytyper.netlify.app",
	"http://localhost:5173",
	"https://rallytyper.com",
	"https://www.rallytyper.com",
}

// Requests without an Origin header (curl, server to server) pass through.
// Any other origin not on the list is refused before a route runs.
func newCORSMiddleware(origins []string) fiber.Handler {
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[strings.TrimRight(origin, "/")] = true
	}

	headers := cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    RequestIDKey,
		AllowCredentials: true,
	})

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin != "" && !allowed[strings.TrimRight(origin, "/")] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not allowed by CORS",
			})
		}
		return headers(c)
	}
}
