// Package autoload initializes the global logger from LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	configx "github.com/studio-nexa/tsm-orchestrator/pkg/config"
	logx "github.com/studio-nexa/tsm-orchestrator/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
