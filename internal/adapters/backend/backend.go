// Package backend selects and constructs the persistence backend.
//
// The application runs either inside the desktop shell, where a bridge
// socket is exported through the environment, or as a plain browser
// deployment. Detection is cheap and repeatable: the desktop shell sets
// DAYBOOK_SHELL_BRIDGE to the path of its bridge endpoint before it
// launches the core process.
package backend

import (
	"fmt"
	"os"

	"github.com/daybook/core/internal/adapters/filestore"
	"github.com/daybook/core/internal/adapters/kvstore"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// ShellBridgeEnv names the environment variable the desktop shell sets
// to advertise its bridge endpoint.
const ShellBridgeEnv = "DAYBOOK_SHELL_BRIDGE"

// IsDesktopEnvironment reports whether the desktop shell bridge is
// available. The variable must be set and point at an existing path;
// a stale value left in the environment does not count.
func IsDesktopEnvironment() bool {
	path := os.Getenv(ShellBridgeEnv)
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err != nil {
		return false
	}
	return true
}

// New builds the backend selected by the configuration. Backend "auto"
// resolves to the file backend when running under the desktop shell and
// to the key-value backend otherwise.
func New(cfg *config.Config, log *logger.Logger) (ports.Backend, error) {
	kind := cfg.Storage.Backend
	if kind == "auto" {
		if IsDesktopEnvironment() {
			kind = "file"
		} else {
			kind = "kv"
		}
		log.Infow("resolved storage backend", "backend", kind)
	}

	switch kind {
	case "file":
		return filestore.New(cfg.Storage.FilePath(), log)
	case "kv":
		return kvstore.New(cfg.Storage.Redis, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
