// internal/clibase/common.go
package clibase

import (
	"io"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"phrasex/internal/logging"
)

// Common holds CLI fields shared by every phrasex tool.
type Common struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Quiet      bool
}

// Register wires the shared flags onto fs.
func Register(fs *pflag.FlagSet, c *Common) {
	fs.StringVar(&c.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: debug | info | warn | error")
	fs.StringVar(&c.LogFormat, "log-format", "console", "log format: console | json")
	fs.BoolVarP(&c.Quiet, "quiet", "q", false, "only log errors")
}

// LogConfig overlays the log flags that were set on base. --quiet raises the
// level to error unless --log-level was given explicitly.
func (c *Common) LogConfig(fs *pflag.FlagSet, base logging.Config) logging.Config {
	if fs.Changed("log-level") {
		base.Level = c.LogLevel
	} else if c.Quiet {
		base.Level = "error"
	}
	if fs.Changed("log-format") {
		base.Format = c.LogFormat
	}
	return base
}

// Logger builds the tool logger on stderr.
func (c *Common) Logger(fs *pflag.FlagSet, base logging.Config, stderr io.Writer, tool string) (*zap.Logger, error) {
	return logging.New(c.LogConfig(fs, base), stderr, zap.String("tool", tool))
}
