package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererPlainText(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut, ModeText)

	r.Header("Assets")
	r.Println("hello")
	r.Printf("%d files\n", 3)
	r.StatusLine("Version", "1.2.3")
	r.Success("done")
	r.Warning("careful")
	r.Error("broken")

	assert.Contains(t, out.String(), "Assets\n")
	assert.Contains(t, out.String(), "hello\n")
	assert.Contains(t, out.String(), "3 files\n")
	assert.Contains(t, out.String(), "Version")
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ broken")
	assert.False(t, r.JSON())
}

func TestRendererAutoOnBufferIsPlain(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeAuto)

	r.Header("Assets")
	// No ANSI escapes when the writer is not a terminal.
	assert.Equal(t, "Assets\n", out.String())
}

func TestRendererJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out, ModeJSON)
	require.True(t, r.JSON())

	require.NoError(t, r.WriteJSON(map[string]string{"version": "1.2.3"}))
	assert.JSONEq(t, `{"version":"1.2.3"}`, out.String())
}
