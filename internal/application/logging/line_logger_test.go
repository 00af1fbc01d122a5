package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/eveindustry-go/internal/application/logging"
)

func TestLineLogger_WritesToConfiguredDestination(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewLineLogger(&buf, "INFO")

	// Act
	logger.Log("INFO", "project created", map[string]interface{}{
		"runs":       int64(5),
		"project_id": "p-1",
	})

	// Assert - message lands in the buffer with metadata in key order
	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, "[INFO] project created")
	assert.Less(t, strings.Index(line, "project_id=p-1"), strings.Index(line, "runs=5"))
}

func TestLineLogger_FiltersBelowMinLevel(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewLineLogger(&buf, "WARN")

	// Act
	logger.Log("DEBUG", "noise", nil)
	logger.Log("INFO", "still noise", nil)
	logger.Log("ERROR", "kept", nil)

	// Assert
	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "kept")
}

func TestLineLogger_NormalizesConfiguredLevel(t *testing.T) {
	// Arrange - config levels arrive lowercase
	var buf bytes.Buffer
	logger := logging.NewLineLogger(&buf, "debug")

	// Act
	logger.Log("DEBUG", "visible", nil)

	// Assert
	assert.Equal(t, "DEBUG", logger.MinLevel)
	assert.Contains(t, buf.String(), "visible")
}

func TestLineLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := logging.NewLineLogger(&buf, "chatty")

	// Act
	logger.Log("DEBUG", "hidden", nil)
	logger.Log("INFO", "shown", nil)

	// Assert
	assert.Equal(t, "INFO", logger.MinLevel)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
