package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AnnotatesWithRequestIDAndUsername(t *testing.T) {
	var out bytes.Buffer
	ctx := WithLogger(context.Background(), NewLogger(DebugLevel, &out))
	ctx = WithRequestID(ctx, "rid-123")
	ctx = WithUsername(ctx, "chair")

	FromContext(ctx).Info("scoped call")

	line := out.String()
	assert.Contains(t, line, `"request_id":"rid-123"`)
	assert.Contains(t, line, `"username":"chair"`)
	assert.Contains(t, line, `"msg":"scoped call"`)
}

func TestFromContext_FallsBackToDefaultLogger(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))
}

func TestContextGetters_EmptyWhenUnset(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUsername(ctx))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("anything else"))
}
