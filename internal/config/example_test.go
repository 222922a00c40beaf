package config_test

import (
	"fmt"
	"log"
	"os"

	"github.com/robert-malhotra/intara-search-proxy/internal/config"
)

func ExampleLoad() {
	// Set required credentials
	os.Setenv("INTARA_API_KEY", "example-api-key")
	os.Setenv("INTARA_CLIENT_ID", "example-client-id")
	os.Setenv("INTARA_CLIENT_SECRET", "example-client-secret")
	defer func() {
		os.Unsetenv("INTARA_API_KEY")
		os.Unsetenv("INTARA_CLIENT_ID")
		os.Unsetenv("INTARA_CLIENT_SECRET")
	}()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Access configuration values
	fmt.Printf("Server: %s\n", cfg.Server.Address())
	fmt.Printf("Intara API: %s\n", cfg.Intara.BaseURL)
	fmt.Printf("Default component: %s\n", cfg.Search.DefaultComponent)
	fmt.Printf("Max page size: %d\n", cfg.Search.MaxPageSize)

	// Output:
	// Server: 0.0.0.0:8080
	// Intara API: https://intara-api.janes.com/graph
	// Default component: military-groups
	// Max page size: 200
}

func ExampleDefaultComponents() {
	registry := config.DefaultComponents()

	component := registry.Get("military-groups")
	fmt.Printf("Component ID: %s\n", component.ID)
	fmt.Printf("Title: %s\n", component.Title)
	fmt.Printf("Total components: %d\n", registry.Count())

	// Output:
	// Component ID: military-groups
	// Title: Military Groups
	// Total components: 1
}

func ExampleComponentRegistry_Get() {
	registry := config.NewComponentRegistry()

	// Add some test components
	registry.Add(&config.ComponentConfig{
		ID:           "military-groups",
		Title:        "Military Groups",
		Description:  "Military group entities from the Intara graph",
		EnableCounts: true,
	})

	registry.Add(&config.ComponentConfig{
		ID:          "installations",
		Title:       "Installations",
		Description: "Military installation entities",
		DefaultParams: map[string]string{
			"facets": "country",
		},
	})

	// Look up a component by ID
	if component := registry.Get("installations"); component != nil {
		fmt.Printf("Found: %s\n", component.Title)
		fmt.Printf("Default facets: %s\n", component.DefaultParams["facets"])
	}

	fmt.Printf("Counts enabled for military-groups: %v\n", registry.CountsEnabled("military-groups"))

	// Output:
	// Found: Installations
	// Default facets: country
	// Counts enabled for military-groups: true
}

func ExampleServerConfig_Address() {
	// Set custom port
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("INTARA_API_KEY", "example-api-key")
	os.Setenv("INTARA_CLIENT_ID", "example-client-id")
	os.Setenv("INTARA_CLIENT_SECRET", "example-client-secret")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("INTARA_API_KEY")
		os.Unsetenv("INTARA_CLIENT_ID")
		os.Unsetenv("INTARA_CLIENT_SECRET")
	}()

	cfg, _ := config.Load()

	// Get server address
	addr := cfg.Server.Address()
	fmt.Printf("Listen on: %s\n", addr)

	// Output:
	// Listen on: 0.0.0.0:9090
}
