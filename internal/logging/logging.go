// Package logging wires the commonlog backend used by every gojs package.
package logging

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Verbosity levels accepted by Configure. Anything at or below VerbosityNone
// disables logging.
const (
	VerbosityNone    = -10
	VerbosityError   = -3
	VerbosityWarning = -2
	VerbosityNotice  = -1
	VerbosityInfo    = 0
	VerbosityDebug   = 1
)

// DefaultVerbosity keeps the REPL quiet unless something goes wrong.
const DefaultVerbosity = VerbosityWarning

func init() {
	commonlog.Configure(DefaultVerbosity, nil)
}

// Get returns the named logger under the "gojs" hierarchy.
func Get(name string) commonlog.Logger {
	return commonlog.GetLogger("gojs." + name)
}

// Configure sets the global verbosity. An empty path logs to stderr.
func Configure(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// ParseLevel converts a level name from the config file into a verbosity.
func ParseLevel(level string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "warning", "warn":
		return VerbosityWarning, nil
	case "none", "off", "quiet":
		return VerbosityNone, nil
	case "error":
		return VerbosityError, nil
	case "notice":
		return VerbosityNotice, nil
	case "info":
		return VerbosityInfo, nil
	case "debug":
		return VerbosityDebug, nil
	default:
		return 0, fmt.Errorf("unknown log level: %q (valid options: none, error, warning, notice, info, debug)", level)
	}
}
