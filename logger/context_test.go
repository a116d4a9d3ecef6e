package logger_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/logger"
)

func TestLogContextMarshalText(t *testing.T) {
	// Arrange
	lc := logger.LogContext{}

	// Act
	b, err := lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []byte("{}"), b)

	// Arrange
	lc = logger.LogContext{Data: map[string]any{"test": "data"}, Caller: "ignored.go:1"}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"data":{"test":"data"}}`, string(b))

	// Arrange
	lc = logger.LogContext{Error: errors.New("test")}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"error":"test"}`, string(b))

	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com/login?password=hunter2", nil)
	r = r.Clone(context.WithValue(r.Context(), switchback.RequestIDKey, "test-id"))
	lc = logger.LogContext{Request: r}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	m := make(map[string]map[string]any)
	require.Nil(t, json.Unmarshal(b, &m))
	require.Equal(t, http.MethodGet, m["request"]["method"])
	require.Equal(t, "test-id", m["request"]["id"])
	require.Equal(t, "https://example.com/login?password="+switchback.LogMaskVal, m["request"]["url"])
}
