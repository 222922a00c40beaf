package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ComponentConfig describes one Intara graph resource collection exposed
// through the search API. Components are typically loaded from JSON files
// in the components directory.
type ComponentConfig struct {
	// ID is the upstream path segment, e.g. "military-groups".
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// DefaultParams are upstream query parameters applied to every search
	// against this component before the caller's own parameters.
	DefaultParams map[string]string `json:"default_params,omitempty"`

	// EnableCounts allows count-only requests against this component. When
	// false, count-only searches short-circuit to an empty result instead
	// of hitting the upstream.
	EnableCounts bool `json:"enable_counts"`
}

// ComponentRegistry holds all loaded component configurations indexed by ID.
type ComponentRegistry struct {
	components map[string]*ComponentConfig
}

// NewComponentRegistry creates a new empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentConfig),
	}
}

// DefaultComponents returns a registry preloaded with the components the
// proxy serves out of the box.
func DefaultComponents() *ComponentRegistry {
	registry := NewComponentRegistry()
	registry.components["military-groups"] = &ComponentConfig{
		ID:           "military-groups",
		Title:        "Military Groups",
		Description:  "Military group entities from the Intara graph",
		EnableCounts: true,
	}
	return registry
}

// LoadComponents loads component definitions from JSON files in the specified
// directory. Only files with a .json extension are processed.
func LoadComponents(componentsDir string) (*ComponentRegistry, error) {
	registry := NewComponentRegistry()

	info, err := os.Stat(componentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access components directory %q: %w", componentsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("components path %q is not a directory", componentsDir)
	}

	entries, err := os.ReadDir(componentsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read components directory %q: %w", componentsDir, err)
	}

	loadedCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filename := entry.Name()
		if !strings.HasSuffix(strings.ToLower(filename), ".json") {
			continue
		}

		filePath := filepath.Join(componentsDir, filename)
		component, err := loadComponentFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load component from %q: %w", filePath, err)
		}

		if err := registry.Add(component); err != nil {
			return nil, fmt.Errorf("failed to add component from %q: %w", filePath, err)
		}

		loadedCount++
	}

	if loadedCount == 0 {
		return nil, fmt.Errorf("no component files found in %q", componentsDir)
	}

	return registry, nil
}

// loadComponentFile loads a single component configuration from a JSON file.
func loadComponentFile(filePath string) (*ComponentConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var component ComponentConfig
	if err := json.Unmarshal(data, &component); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := validateComponent(&component); err != nil {
		return nil, fmt.Errorf("invalid component configuration: %w", err)
	}

	return &component, nil
}

// validateComponent checks that a component configuration is valid.
func validateComponent(c *ComponentConfig) error {
	if c.ID == "" {
		return fmt.Errorf("component ID is required")
	}

	// The ID becomes a URL path segment on the upstream.
	if strings.ContainsAny(c.ID, "/?#& ") {
		return fmt.Errorf("component ID %q must be a single path segment", c.ID)
	}

	if c.Title == "" {
		return fmt.Errorf("component title is required")
	}

	for key := range c.DefaultParams {
		if key == "" {
			return fmt.Errorf("default parameter names must not be empty")
		}
	}

	return nil
}

// Add registers a component in the registry.
// Returns an error if a component with the same ID already exists.
func (r *ComponentRegistry) Add(component *ComponentConfig) error {
	if component == nil {
		return fmt.Errorf("cannot add nil component")
	}

	if _, exists := r.components[component.ID]; exists {
		return fmt.Errorf("component with ID %q already exists", component.ID)
	}

	r.components[component.ID] = component
	return nil
}

// Get retrieves a component by ID.
// Returns nil if the component does not exist.
func (r *ComponentRegistry) Get(id string) *ComponentConfig {
	return r.components[id]
}

// Has checks if a component with the given ID exists in the registry.
func (r *ComponentRegistry) Has(id string) bool {
	_, exists := r.components[id]
	return exists
}

// All returns all components in the registry.
func (r *ComponentRegistry) All() []*ComponentConfig {
	components := make([]*ComponentConfig, 0, len(r.components))
	for _, component := range r.components {
		components = append(components, component)
	}
	return components
}

// IDs returns all component IDs in the registry.
func (r *ComponentRegistry) IDs() []string {
	ids := make([]string, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of components in the registry.
func (r *ComponentRegistry) Count() int {
	return len(r.components)
}

// DefaultParams returns the default upstream parameters for the given
// component ID. Returns nil if the component does not exist.
func (r *ComponentRegistry) DefaultParams(id string) map[string]string {
	component := r.Get(id)
	if component == nil {
		return nil
	}
	return component.DefaultParams
}

// CountsEnabled reports whether count-only searches are allowed for the
// given component ID. Unknown components report false.
func (r *ComponentRegistry) CountsEnabled(id string) bool {
	component := r.Get(id)
	if component == nil {
		return false
	}
	return component.EnableCounts
}
