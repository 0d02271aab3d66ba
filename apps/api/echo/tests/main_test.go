package tests

import (
	"os"
	"testing"

	"github.com/riyazhq/riyaz/core"
)

func TestMain(m *testing.M) {
	// deterministic error bodies: no debug passthrough, no recover middleware
	core.Conf.Debug = false
	core.Conf.TestMode = true

	os.Exit(m.Run())
}
