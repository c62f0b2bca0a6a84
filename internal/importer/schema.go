package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/planops/internal/domain"
	"gopkg.in/yaml.v3"
)

const maxCatalogFileSize = 4 * 1024 * 1024

// CatalogImport is the on-disk shape of a rule catalog. YAML and JSON files
// are both accepted. Either id or package names the catalog.
type CatalogImport struct {
	ID       string       `yaml:"id"`
	Package  string       `yaml:"package"`
	Sections []string     `yaml:"sections"`
	Rules    []RuleImport `yaml:"rules"`
}

// RuleImport mirrors domain.PlanTaskRule with a looser frequency spelling
// ("one_time", "monthly", "as needed").
type RuleImport struct {
	ID             string                   `yaml:"id"`
	Task           string                   `yaml:"task"`
	Section        string                   `yaml:"section"`
	Frequency      string                   `yaml:"frequency"`
	DaysAfterJoin  int                      `yaml:"days_after_join"`
	MonthlyDueDate *int                     `yaml:"monthly_due_date"`
	RequiresGoal   bool                     `yaml:"requires_goal"`
	DefaultGoal    *int                     `yaml:"default_goal"`
	DefaultCurrent *int                     `yaml:"default_current"`
	Subtasks       []domain.SubtaskTemplate `yaml:"subtasks"`
	Order          int                      `yaml:"order"`
	IsActive       *bool                    `yaml:"is_active"`
}

// ParseCatalog decodes a catalog document, rejecting unknown keys.
func ParseCatalog(data []byte) (*CatalogImport, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var schema CatalogImport
	if err := dec.Decode(&schema); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog file is empty: %w", domain.ErrInvalid)
		}
		return nil, fmt.Errorf("parsing catalog: %w: %w", domain.ErrInvalid, err)
	}
	return &schema, nil
}

// LoadCatalogFile reads, validates and converts a catalog file.
func LoadCatalogFile(path string) (*domain.RuleCatalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	if info.Size() > maxCatalogFileSize {
		return nil, fmt.Errorf("catalog file %s exceeds %d bytes: %w", path, maxCatalogFileSize, domain.ErrInvalid)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	schema, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if errs := ValidateCatalogImport(schema); len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrInvalid, errors.Join(errs...))
	}
	return Convert(schema), nil
}
