package dialognode

import (
	"context"
	"fmt"

	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// PersistState applies the turn's single store mutation. Re-prompts perform
// no write, so the TTL only renews when the flow actually moves.
func PersistState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	switch in.Persist {
	case PersistNone:
		return in, nil
	case PersistSave:
		if in.NextSession == nil {
			return nil, fmt.Errorf("%w: save scheduled without next session", contractx.ErrValidation)
		}
		in.NextSession.Touch(in.Now)
		if err := in.NextSession.Validate(); err != nil {
			return nil, fmt.Errorf("state validation failed: %w", err)
		}
		if err := store.Save(ctx, in.NextSession); err != nil {
			return nil, err
		}
		return in, nil
	case PersistDelete:
		if err := store.Delete(ctx, in.In.TenantID, in.In.Channel, in.In.UserID); err != nil {
			return nil, err
		}
		return in, nil
	default:
		return nil, fmt.Errorf("%w: unknown persist op %d", contractx.ErrValidation, in.Persist)
	}
}
