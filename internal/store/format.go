package store

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
)

// Format is the encoding of a settings file.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return "", apperrors.NewValidationError("format", fmt.Sprintf("unsupported file format %q (use .json, .yaml, or .yml)", name))
	}
}

// FormatFromPath selects the format by file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes v to w in format f.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	default:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	}
	return nil
}

// Decoder returns a function decoding the content of r in format f into
// its argument. Fields missing from the input keep their current value.
func Decoder(r io.Reader, f Format) func(v any) error {
	return func(v any) error {
		switch f {
		case JSON:
			if err := json.NewDecoder(r).Decode(v); err != nil {
				return fmt.Errorf("failed to decode JSON: %w", err)
			}
		default:
			if err := yaml.NewDecoder(r).Decode(v); err != nil && err != io.EOF {
				return fmt.Errorf("failed to decode YAML: %w", err)
			}
		}
		return nil
	}
}
