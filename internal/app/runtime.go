package app

import (
	"os"
	"sync"
)

const testModeEnv = "ODYSSEY_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})

// InTestMode reports whether the process runs under go test and should skip
// runtime side effects such as request logging and server startup.
func InTestMode() bool {
	return testMode()
}
