package sitemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoHomepage is returned when a document decodes but carries no homepage.
var ErrNoHomepage = errors.New("sitemap has no homepage")

// Decode parses a JSON sitemap document.
func Decode(data []byte) (*Sitemap, error) {
	var sm Sitemap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	if sm.Homepage == nil {
		return nil, ErrNoHomepage
	}
	return &sm, nil
}

// DecodeYAML parses a YAML sitemap document using the same field names as the
// JSON form.
func DecodeYAML(data []byte) (*Sitemap, error) {
	var sm Sitemap
	if err := yaml.Unmarshal(data, &sm); err != nil {
		return nil, fmt.Errorf("decode sitemap yaml: %w", err)
	}
	if sm.Homepage == nil {
		return nil, ErrNoHomepage
	}
	return &sm, nil
}

// LoadFile reads a sitemap from disk, choosing the decoder by extension.
// Anything that is not .yaml/.yml is treated as JSON.
func LoadFile(path string) (*Sitemap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sitemap %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Decode(data)
	}
}
