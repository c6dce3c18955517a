package dialognode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// LoadState performs the turn's single session store read. A missing entry
// is not an error: the user simply has no flow in progress.
func LoadState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.In.TenantID, in.In.Channel, in.In.UserID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		st = nil
	}

	in.Session = st
	in.StateBefore = statex.StateIdle
	in.Scenario = in.In.Scenario
	if st != nil {
		in.StateBefore = st.State
		in.Scenario = st.Scenario
		in.Data = st.Data
	}
	return in, nil
}
