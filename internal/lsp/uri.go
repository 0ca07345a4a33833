package lsp

import (
	"net/url"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// uriToPath returns the local path of a file URI and "" for anything else,
// such as untitled buffers.
func uriToPath(u protocol.DocumentURI) string {
	if u == "" {
		return ""
	}
	parsed, err := url.ParseRequestURI(string(u))
	if err != nil || parsed.Scheme != uri.FileScheme {
		return ""
	}
	return u.Filename()
}
