// Package orchestrator wires the turn pipeline into the dialogue Engine, the
// single entry point the transport layer calls once per user turn.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	nodex "github.com/studio-nexa/tsm-orchestrator/dialog/nodes"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

const defaultVersion = "v0.1.1"

type Config struct {
	// Version is echoed in every TurnOutput for client-side diagnostics.
	Version string `envconfig:"VERSION" split_words:"true" default:"v0.1.1"`
}

// Engine is the dialogue controller. It owns the only read and the only
// write (or delete) of the session store per turn; everything in between is
// pure computation.
type Engine struct {
	store   statex.Store
	catalog catalogx.Provider

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	version string
	now     func() time.Time
}

func New(store statex.Store, catalog catalogx.Provider, cfg Config) (*Engine, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if catalog == nil {
		return nil, errors.New("catalog provider is required")
	}

	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = defaultVersion
	}

	e := &Engine{
		store:   store,
		catalog: catalog,
		version: version,
		now:     time.Now,
	}

	graphRunner, err := e.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// HandleTurn processes one user turn and returns the reply plus the debug
// trace. Turns for the same user must be serialized by the caller.
func (e *Engine) HandleTurn(ctx context.Context, in contractx.TurnInput) (contractx.TurnOutput, error) {
	out, err := e.graphRunner.Invoke(ctx, in)
	if err != nil {
		return contractx.TurnOutput{}, err
	}

	log.Debug().
		Str("tenant", in.TenantID).
		Str("channel", in.Channel).
		Str("user", in.UserID).
		Str("state_before", out.Debug.StateBefore).
		Str("state_after", out.Debug.StateAfter).
		Str("intent", out.Intent).
		Str("rule", out.Debug.RuleUsed).
		Msg("turn handled")

	return out, nil
}
