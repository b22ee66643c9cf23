package emitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"plan-converter/internal/converter/models"
)

// ============================================================
// Model Emitter
// ============================================================

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml"; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode writes m to w. Field order follows the model structs and map keys
// are sorted, so equal models produce identical output.
func Encode(w io.Writer, m *models.Model, f Format) error {
	if m == nil {
		return fmt.Errorf("model is nil")
	}

	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", f)
}

// Marshal is Encode into a byte slice.
func Marshal(m *models.Model, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
