// Package wardrobe provides the garments offered to the user: a built-in
// default set, an optional YAML catalog and items created from uploads.
package wardrobe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"giyinme/internal/domain"
)

var defaultItems = []domain.WardrobeItem{
	{
		ID:   "reai-tank-top",
		Name: "reAI Tank Top",
		URL:  "https://storage.googleapis.com/reai_studio/reAI-Tank-Top.png",
	},
	{
		ID:   "reai-dress",
		Name: "reAI Dress",
		URL:  "https://storage.googleapis.com/reai_studio/reAI-Dress.png",
	},
}

// Defaults returns a fresh copy of the built-in items.
func Defaults() []domain.WardrobeItem {
	out := make([]domain.WardrobeItem, len(defaultItems))
	copy(out, defaultItems)
	return out
}

type catalogFile struct {
	Items []domain.WardrobeItem `yaml:"items"`
}

// Load reads a YAML catalog. An empty path returns the defaults.
//
//	items:
//	  - id: linen-shirt
//	    name: Linen Shirt
//	    url: https://example.com/linen-shirt.png
func Load(path string) ([]domain.WardrobeItem, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wardrobe: read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates catalog YAML.
func Parse(raw []byte) ([]domain.WardrobeItem, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("wardrobe: decode catalog: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, errors.New("wardrobe: catalog has no items")
	}
	seen := make(map[string]struct{}, len(file.Items))
	for i, item := range file.Items {
		if item.ID == "" || item.URL == "" {
			return nil, fmt.Errorf("wardrobe: item %d needs an id and a url", i)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("wardrobe: duplicate item id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.Name == "" {
			file.Items[i].Name = DisplayName(item.ID)
		}
	}
	return file.Items, nil
}

// FromUpload creates a wardrobe item for a garment the user uploaded.
func FromUpload(filename, url string) domain.WardrobeItem {
	return domain.WardrobeItem{
		ID:   "custom-" + uuid.NewString(),
		Name: DisplayName(filename),
		URL:  url,
	}
}

var titleCaser = cases.Title(language.Und)

// DisplayName turns a file name such as "red_summer-dress.png" into
// "Red Summer Dress".
func DisplayName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Custom Garment"
	}
	return titleCaser.String(base)
}

// Contains reports whether items holds an item with id.
func Contains(items []domain.WardrobeItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
