package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arborcode/symgraph/model"
)

// WriteYAML dumps g as YAML, config-filtered by cfg. YAML is the format of
// choice when a human is going to read the export directly rather than feed
// it to another tool — more compact than indented JSON for the same tree.
func WriteYAML(g *model.Graph, cfg FilterConfig) ([]byte, error) {
	elements, err := Dump(g, cfg)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(map[string]any{
		"rootId":   g.RootID,
		"elements": elements,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling graph to yaml: %w", err)
	}
	return out, nil
}
