package handlers

import (
	"os"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs Handlers
// ============================================================

// APISpec serves the converter OpenAPI YAML.
func APISpec(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "api spec not found"})
		}
		c.Type("yaml")
		return c.Send(data)
	}
}

// APIDocs serves a Swagger UI page that loads /docs/openapi.yaml.
func APIDocs(c fiber.Ctx) error {
	page := `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Plan Converter API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#swagger-ui',
    });
  };
</script>
</body>
</html>`

	c.Type("html")
	return c.SendString(page)
}
