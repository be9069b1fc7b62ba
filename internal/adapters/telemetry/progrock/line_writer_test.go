package progrock_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	keelprogrock "go.trai.ch/keel/internal/adapters/telemetry/progrock"
)

func TestLineWriter_RendersCompletions(t *testing.T) {
	var buf bytes.Buffer
	recorder := keelprogrock.NewRecorder(keelprogrock.NewLineWriter(&buf))

	_, done := recorder.Start(t.Context(), "fetch libfoo@1.0.5")
	done.Complete(nil)

	_, hit := recorder.Start(t.Context(), "fetch zlib@1.2.13")
	hit.Cached()

	_, failed := recorder.Start(t.Context(), "fetch ghost@1.0.0")
	failed.Complete(errors.New("download failed"))

	require.NoError(t, recorder.Close())

	out := buf.String()
	assert.Contains(t, out, "fetch libfoo@1.0.5: done\n")
	assert.Contains(t, out, "fetch zlib@1.2.13 (cached)\n")
	assert.Contains(t, out, "fetch ghost@1.0.0: failed: download failed\n")
}

func TestLineWriter_OneLinePerVertex(t *testing.T) {
	var buf bytes.Buffer
	recorder := keelprogrock.NewRecorder(keelprogrock.NewLineWriter(&buf))

	_, vertex := recorder.Start(t.Context(), "fetch libbar@2.1.0")
	vertex.Complete(nil)

	// The recorder keeps syncing completed vertexes on later updates; only
	// the first completion may surface.
	_, other := recorder.Start(t.Context(), "fetch zlib@1.2.13")
	other.Complete(nil)
	require.NoError(t, recorder.Close())

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("libbar")))
}

func TestNew(t *testing.T) {
	assert.NotNil(t, keelprogrock.New())
}
