// Package config holds the small amount of ambient configuration the CLI
// needs beyond its flags: a project-root fallback read from the
// environment, and which optional element attributes get surfaced —
// modeled as a concrete, listable type (NodeAttributeConfig) rather than a
// free-form string map, following the same concrete-struct-of-named-
// booleans/lists shape as output/options.go and the Python prototype's
// output_config.py.
package config

import "os"

// ProjectRootEnvVar supplies the project root when --project is empty. It is
// read from the process environment, which analytics.LoadEnvFile also fills
// from ~/.symgraph/.env.
const ProjectRootEnvVar = "SYMGRAPH_PROJECT_ROOT"

// ResolveProjectRoot returns flagValue unless it's empty, in which case it
// falls back to SYMGRAPH_PROJECT_ROOT, and finally "." .
func ResolveProjectRoot(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(ProjectRootEnvVar); v != "" {
		return v
	}
	return "."
}

// NodeAttributeConfig selects which optional, possibly expensive attributes
// the extractor populates on each element. Instructions and CallSites are
// comparatively cheap (one extra pass over an already-parsed tree) so they
// default on; disabling them is for very large projects where export size
// matters more than completeness.
type NodeAttributeConfig struct {
	IncludeInstructions   bool
	IncludeCallSites      bool
	IncludeAttributeTypes bool
}

// DefaultNodeAttributeConfig turns every optional attribute on.
func DefaultNodeAttributeConfig() NodeAttributeConfig {
	return NodeAttributeConfig{
		IncludeInstructions:   true,
		IncludeCallSites:      true,
		IncludeAttributeTypes: true,
	}
}
