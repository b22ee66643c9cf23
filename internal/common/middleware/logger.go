package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger returns the request logging middleware.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | plan=${respHeader:X-Plan-ID} diagnostics=${respHeader:X-Diagnostics}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
