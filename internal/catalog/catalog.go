// Package catalog loads the list of sports users can pick from and seeds it
// into the sports table.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed sports.yaml
var defaultCatalog []byte

type Entry struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

type file struct {
	Sports []Entry `yaml:"sports"`
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) ([]Entry, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sports catalog: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) ([]Entry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sports catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Sports))
	entries := make([]Entry, 0, len(f.Sports))
	for i, e := range f.Sports {
		e.Slug = strings.ToLower(strings.TrimSpace(e.Slug))
		e.Name = strings.TrimSpace(e.Name)
		if e.Slug == "" || e.Name == "" {
			return nil, fmt.Errorf("sports catalog entry %d: slug and name are required", i)
		}
		if seen[e.Slug] {
			return nil, fmt.Errorf("sports catalog: duplicate slug %q", e.Slug)
		}
		seen[e.Slug] = true
		entries = append(entries, e)
	}
	return entries, nil
}

// Seed upserts entries by slug, renaming existing sports in place.
func Seed(ctx context.Context, db *gorm.DB, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.Sport, len(entries))
	for i, e := range entries {
		rows[i] = models.Sport{Slug: e.Slug, Name: e.Name}
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&rows).Error
}
