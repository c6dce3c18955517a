package dialognode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
)

func ValidateRequest(in GraphInput, now func() time.Time) (*GraphState, error) {
	if strings.TrimSpace(in.TenantID) == "" ||
		strings.TrimSpace(in.Channel) == "" ||
		strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("%w: tenant_id, channel and user_id are required", contractx.ErrValidation)
	}

	switch in.ActionType {
	case contractx.ActionButton:
		if strings.TrimSpace(in.ActionName) == "" {
			return nil, fmt.Errorf("%w: %s", contractx.ErrValidation, contractx.ErrMissingButton)
		}
	case contractx.ActionText:
		// action_name is ignored for text turns
	default:
		return nil, fmt.Errorf("%w: %s", contractx.ErrValidation, contractx.ErrInvalidAction)
	}

	return &GraphState{In: in, Now: now()}, nil
}
