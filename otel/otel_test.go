package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_Console(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")

	var buf bytes.Buffer
	ctx := context.Background()
	require.NoError(t, Configure(ctx,
		Exporter("console"),
		Output(&buf),
		ServiceVersion("test"),
	))

	_, span := Tracer("linemsg/test").Start(ctx, "span.test")
	span.End()

	require.NoError(t, Shutdown(ctx))
	assert.Contains(t, buf.String(), "span.test")
	assert.False(t, Disabled())

	// once
	assert.NoError(t, Configure(ctx, Exporter("bogus")))
	assert.NoError(t, Shutdown(ctx))
}
