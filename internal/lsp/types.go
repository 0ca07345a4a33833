package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"
)

const (
	codeInvalidRequest       = -32600
	codeMethodNotFound       = -32601
	codeInvalidParams        = -32602
	codeServerNotInitialized = -32002
)

type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// isRequest reports whether the sender expects a response.
func (m *rpcMessage) isRequest() bool {
	return len(m.ID) > 0
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeParams decodes only what the server reads, so client
// capabilities of any shape are accepted.
type initializeParams struct {
	RootURI          protocol.DocumentURI       `json:"rootUri,omitempty"`
	RootPath         string                     `json:"rootPath,omitempty"`
	WorkspaceFolders []protocol.WorkspaceFolder `json:"workspaceFolders,omitempty"`
}
