package harness

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SuiteConfig is the environment-driven configuration for a test-suite
// run. It is constructed exactly once at suite startup and passed into the
// scenarios; nothing in the harness reads the environment after that.
type SuiteConfig struct {
	// CompatEnabled opts compatibility scenarios in. When false they are
	// skipped, not failed: compatibility verification is opportunistic.
	CompatEnabled bool

	// SkipBuild disables the compile step of compatibility scenarios.
	SkipBuild bool

	// Parallel selects the concurrent per-mode execution strategy.
	Parallel bool

	// ScenarioTimeout bounds each scenario end to end.
	ScenarioTimeout time.Duration
}

// DefaultScenarioTimeout applies when OASGEN_SCENARIO_TIMEOUT_SEC is unset
// or unparseable.
const DefaultScenarioTimeout = 120 * time.Second

// LoadSuiteConfig reads the suite toggles from the environment. A .env
// file in the working directory is honored when present; absence of any
// toggle means disabled.
func LoadSuiteConfig() SuiteConfig {
	_ = godotenv.Load()

	return SuiteConfig{
		CompatEnabled:   envBool("OASGEN_COMPAT_ENABLE"),
		SkipBuild:       envBool("OASGEN_COMPAT_SKIP_BUILD"),
		Parallel:        envBool("OASGEN_COMPAT_PARALLEL"),
		ScenarioTimeout: envSeconds("OASGEN_SCENARIO_TIMEOUT_SEC", DefaultScenarioTimeout),
	}
}

func envBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
