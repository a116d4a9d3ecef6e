package ranger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback/logger"
)

func TestEnvVarOrLogLevel(t *testing.T) {
	for _, tc := range []struct {
		val      string
		expected logger.LogLevel
	}{
		{"", logger.LogLevelInfo},
		{"DEBUG", logger.LogLevelDebug},
		{"warn", logger.LogLevelWarn},
		{"loud", logger.LogLevelInfo},
	} {
		t.Run(tc.val, func(t *testing.T) {
			t.Setenv("SWITCHBACK_TEST_LOG_LEVEL", tc.val)
			require.Equal(t, tc.expected, envVarOrLogLevel("SWITCHBACK_TEST_LOG_LEVEL", logger.LogLevelInfo))
		})
	}
}
