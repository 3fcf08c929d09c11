package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "ONBOARD_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether the portal binary should exit before binding
// the listener or dialing redis. Smoke pipelines use it to exercise the
// startup path without runtime dependencies.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads ONBOARD_TEST_MODE after an environment change.
func RefreshTestMode() {
	detectTestMode()
}
