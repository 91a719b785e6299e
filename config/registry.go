// Package config holds the canonical default configuration payload for
// every middleware and service variant the backend supports, loaded from an
// embedded templates file.
package config

import (
	"encoding/json"
	"fmt"
	"sort"

	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// EmptyTemplate is returned for variants the registry does not know.
const EmptyTemplate = "{}"

// EntityKind selects which template namespace a variant belongs to.
type EntityKind string

const (
	MiddlewareKind EntityKind = "middleware"
	ServiceKind    EntityKind = "service"
)

// VariantInfo is the descriptive metadata shipped with a template.
type VariantInfo struct {
	Description string
	Notes       string
}

// templateEntry mirrors one entry of templates.yaml.
type templateEntry struct {
	Type        string                 `yaml:"type"`
	Description string                 `yaml:"description"`
	Notes       string                 `yaml:"notes"`
	Config      map[string]interface{} `yaml:"config"`
}

// templatesFile mirrors the structure of templates.yaml.
type templatesFile struct {
	Middlewares []templateEntry `yaml:"middlewares"`
	Services    []templateEntry `yaml:"services"`
}

// TemplateRegistry maps (entity kind, variant) to a canonical default
// configuration payload. It is stateless after construction: the same
// variant always yields the same pretty-printed JSON text.
type TemplateRegistry struct {
	templates map[EntityKind]map[string]templateEntry
}

// NewTemplateRegistry parses the embedded templates file.
func NewTemplateRegistry() (*TemplateRegistry, error) {
	var file templatesFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	registry := &TemplateRegistry{
		templates: map[EntityKind]map[string]templateEntry{
			MiddlewareKind: make(map[string]templateEntry, len(file.Middlewares)),
			ServiceKind:    make(map[string]templateEntry, len(file.Services)),
		},
	}
	for _, entry := range file.Middlewares {
		registry.templates[MiddlewareKind][entry.Type] = entry
	}
	for _, entry := range file.Services {
		registry.templates[ServiceKind][entry.Type] = entry
	}
	return registry, nil
}

// TemplateFor returns the canonical default configuration for a variant as
// pretty-printed JSON text. Unknown variants yield the empty-object
// template, never an error.
func (r *TemplateRegistry) TemplateFor(kind EntityKind, variant string) string {
	entry, ok := r.templates[kind][variant]
	if !ok || entry.Config == nil {
		return EmptyTemplate
	}

	// Map keys are sorted by the encoder, so output is deterministic.
	data, err := json.MarshalIndent(entry.Config, "", "  ")
	if err != nil {
		return EmptyTemplate
	}
	return string(data)
}

// DescribeVariant returns the descriptive metadata for a variant. The
// second return value is false for unknown variants.
func (r *TemplateRegistry) DescribeVariant(kind EntityKind, variant string) (VariantInfo, bool) {
	entry, ok := r.templates[kind][variant]
	if !ok {
		return VariantInfo{}, false
	}
	return VariantInfo{Description: entry.Description, Notes: entry.Notes}, true
}

// Variants returns the known variant names for a kind, sorted.
func (r *TemplateRegistry) Variants(kind EntityKind) []string {
	variants := make([]string, 0, len(r.templates[kind]))
	for variant := range r.templates[kind] {
		variants = append(variants, variant)
	}
	sort.Strings(variants)
	return variants
}
