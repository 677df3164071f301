// Package guard flips the application into test mode when imported for its
// side effect from test packages.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("FINCOACH_TEST_MODE") == "" {
			_ = os.Setenv("FINCOACH_TEST_MODE", "1")
		}
	})
}
