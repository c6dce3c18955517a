package dialognode

import (
	"context"
	"fmt"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
)

// LoadCatalog takes the per-turn catalog snapshot. An empty catalog is
// valid; the flows explain unavailability instead of failing.
func LoadCatalog(ctx context.Context, in *GraphState, provider catalogx.Provider) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	snapshot, err := catalogx.Load(ctx, provider)
	if err != nil {
		return nil, err
	}
	in.Catalog = snapshot
	return in, nil
}
