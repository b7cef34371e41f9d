package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_None(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "shayarihub-test", Exporter: "none"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{ServiceName: "shayarihub-test", Exporter: "jaeger"})
	assert.Error(t, err)
}

func TestNewSpan_NoopProvider(t *testing.T) {
	span, ctx := NewSpan(context.Background(), "test.op")
	span.SetError(errors.New("boom"))
	span.SetError(nil)
	span.End()
	assert.Equal(t, "", TraceID(ctx))
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "shayaris")
	assert.NotPanics(t, done)
}
