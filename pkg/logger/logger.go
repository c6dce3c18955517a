// Package logx sets up the process-wide zerolog logger. Services import
// pkg/logger/autoload from main so the logger is configured from LOG_*
// environment variables before anything else runs.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Debug lowers the level from info to debug.
	Debug bool `split_words:"true" default:"false"`
	// PrettyFormat switches to the human-readable console writer for local
	// runs; deployments stay on JSON lines.
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global logger. Call once at startup.
func Init(cfg ...Config) {
	var conf Config
	if len(cfg) > 0 {
		conf = cfg[0]
	}

	out := io.Writer(os.Stdout)
	if conf.PrettyFormat {
		out = zerolog.NewConsoleWriter()
	}

	level := zerolog.InfoLevel
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger()
}
