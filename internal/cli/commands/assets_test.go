package commands

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/fwbuild/internal/assets"
	"github.com/leapstack-labs/fwbuild/internal/cli/output"
	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.n))
	}
}

func TestRenderAssetResultTable(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeText)

	renderAssetResult(r, &assets.Result{Files: []assets.FileResult{
		{Name: "index.html", OriginalSize: 1000, CompressedSize: 250},
		{Name: "app.js", OriginalSize: 2048, CompressedSize: 2048, Skipped: true},
	}})

	out := buf.String()
	assert.Contains(t, out, "index.html")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "up to date")
	assert.Contains(t, out, "1 compressed, 1 up to date")
}

func TestRenderAssetResultJSON(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeJSON)

	renderAssetResult(r, &assets.Result{Files: []assets.FileResult{
		{Name: "index.html", OriginalSize: 1000, CompressedSize: 250},
	}})

	assert.Contains(t, buf.String(), `"name": "index.html"`)
}

func TestRenderAssetResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := output.NewRenderer(&buf, &buf, output.ModeText)

	renderAssetResult(r, &assets.Result{})
	assert.Contains(t, buf.String(), "No web assets found")
}
