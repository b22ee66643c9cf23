package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS opens the converter to the planner editor. Origins are restricted
// outside development.
func CORS(env string, origins []string) fiber.Handler {
	if env == "development" || len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders: []string{"X-Plan-ID", "X-Diagnostics"},
	})
}
