package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTelemetry(t *testing.T) {
	// Экспортер подключается лениво, поэтому коллектор для инициализации не нужен
	shutdown, err := InitTelemetry(context.Background(), "tileworld-test", "127.0.0.1:1")
	require.NoError(t, err)

	assert.NotNil(t, Tracer())
	assert.NoError(t, shutdown(context.Background()))
}
