package app

import (
	"os"
	"testing"

	_ "github.com/rasika1205/FinCoachAI/internal/testing/guard"
)

func TestTestModeFlagFollowsEnvironment(t *testing.T) {
	orig := os.Getenv(testModeEnv)
	t.Cleanup(func() {
		os.Setenv(testModeEnv, orig)
		RefreshTestMode()
	})

	os.Setenv(testModeEnv, "1")
	RefreshTestMode()
	if !InTestMode() {
		t.Fatalf("expected test mode on when %s=1", testModeEnv)
	}

	os.Setenv(testModeEnv, "0")
	RefreshTestMode()
	if InTestMode() {
		t.Fatalf("expected test mode off when %s=0", testModeEnv)
	}
}
