package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// minify runs a JS or CSS source through esbuild before compression. HTML
// and other extensions pass through untouched.
func minify(name string, content []byte) ([]byte, error) {
	var loader api.Loader
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js":
		loader = api.LoaderJS
	case ".css":
		loader = api.LoaderCSS
	default:
		return content, nil
	}

	result := api.Transform(string(content), api.TransformOptions{
		Loader:            loader,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Target:            api.ES2020,
		LogLevel:          api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var msgs []string
		for _, e := range result.Errors {
			if e.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Text))
			} else {
				msgs = append(msgs, e.Text)
			}
		}
		return nil, fmt.Errorf("minifying %s: %s", name, strings.Join(msgs, "; "))
	}

	return result.Code, nil
}
