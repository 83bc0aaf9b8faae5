package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolateEnv clears variables that would point commands at real services.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "CAR_ADVISOR_") {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}
	}
	for _, key := range []string{"GEMINI_API_KEY", "DATABASE_URL", "REDIS_URL", "PORT", "LOG_LEVEL", "CONFIG_PATH", "RATE_LIMIT_ENABLED"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("CAR_ADVISOR_LOGGING_LEVEL", "error")
	t.Chdir(t.TempDir())
	configPath = ""
}

// run executes the root command in-process and returns its stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const familyPrefs = `{
  "budget": {"min": 20000, "max": 40000},
  "fuelEfficiency": {"min": 25, "importance": "medium"},
  "safetyRating": {"min": 4, "importance": "high"},
  "carType": ["suv", "sedan"],
  "seatingCapacity": 5,
  "features": ["adaptive_cruise"],
  "priorities": ["safety", "reliability"]
}`
