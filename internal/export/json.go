package export

import (
	"encoding/json"
	"fmt"

	"github.com/arborcode/symgraph/model"
)

// WriteJSON dumps g as indented JSON, config-filtered by cfg.
func WriteJSON(g *model.Graph, cfg FilterConfig) ([]byte, error) {
	elements, err := Dump(g, cfg)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(map[string]any{
		"rootId":   g.RootID,
		"elements": elements,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling graph to json: %w", err)
	}
	return out, nil
}
