package dialognode

import (
	"fmt"
	"strings"

	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
)

func FinalizeReply(in *GraphState, version string) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: dispatch produced an empty reply", contractx.ErrValidation)
	}

	return GraphOutput{
		Reply:   reply,
		Intent:  in.Intent,
		Version: version,
		Debug: contractx.Debug{
			StateBefore:   string(in.StateBefore),
			Scenario:      in.Scenario,
			ActionType:    string(in.In.ActionType),
			ActionName:    in.In.ActionName,
			DataCollected: in.Data.Collected(),
			StateAfter:    string(in.StateAfter),
			RuleUsed:      in.RuleUsed,
		},
	}, nil
}
