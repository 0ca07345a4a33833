package lsp

import (
	"path/filepath"

	"go.lsp.dev/protocol"
)

// workspaceRoot picks the project root from rootUri, then rootPath, then the
// first workspace folder. The result is absolute, or "" when the client sent
// none of them.
func workspaceRoot(params *initializeParams) string {
	root := uriToPath(params.RootURI)
	if root == "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}
	if root == "" {
		return ""
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return root
}
