// Package lsp serves the language server protocol over a Content-Length
// framed JSON-RPC stream and publishes lint diagnostics for open buffers.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"svls/internal/linter"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

const (
	serverName       = "svls"
	defaultQueueSize = 64
)

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	// Linter analyzes buffers; nil builds one that searches configuration
	// from the working directory.
	Linter  *linter.Linter
	Log     *zap.Logger
	Version string
	// DropSuperseded skips a queued pass when a newer edit of the same
	// document is already queued behind it.
	DropSuperseded bool
	QueueSize      int
}

// Server handles stdio JSON-RPC for svls.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	log            *zap.Logger
	linter         *linter.Linter
	version        string
	dropSuperseded bool

	jobs chan job

	mu     sync.Mutex
	seq    uint64
	latest map[protocol.DocumentURI]uint64
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	l := opts.Linter
	if l == nil {
		l = linter.New(linter.NewState(log, linter.Options{}), log)
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		log:            log,
		linter:         l,
		version:        opts.Version,
		dropSuperseded: opts.DropSuperseded,
		jobs:           make(chan job, size),
		latest:         make(map[protocol.DocumentURI]uint64),
	}
}

// Run serves until the input ends or the client sends "exit". Queued passes
// are finished and published before Run returns.
func (s *Server) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.work(ctx)
	}()
	err := s.serve()
	close(s.jobs)
	wg.Wait()
	return err
}

func (s *Server) serve() error {
	for {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("failed to parse message", zap.Error(err))
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			return err
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	s.log.Debug("message", zap.String("method", msg.Method), zap.Bool("request", msg.isRequest()))
	phase := s.linter.State().Phase()
	switch msg.Method {
	case protocol.MethodInitialize:
		return s.handleInitialize(msg)
	case protocol.MethodExit:
		if phase == linter.ShuttingDown {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	switch phase {
	case linter.Uninitialized:
		if msg.isRequest() {
			return s.sendError(msg.ID, codeServerNotInitialized, "server not initialized")
		}
		return nil
	case linter.ShuttingDown:
		if msg.isRequest() {
			return s.sendError(msg.ID, codeInvalidRequest, "server is shutting down")
		}
	}

	switch msg.Method {
	case protocol.MethodInitialized:
		return s.sendNotification(protocol.MethodWindowLogMessage, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeInfo,
			Message: "server initialized",
		})
	case protocol.MethodShutdown:
		// passes queued while initialized still publish their diagnostics
		s.flush()
		s.linter.State().Shutdown()
		return s.sendResponse(msg.ID, nil)
	case protocol.MethodTextDocumentDidOpen:
		return s.handleDidOpen(msg)
	case protocol.MethodTextDocumentDidChange:
		return s.handleDidChange(msg)
	case protocol.MethodTextDocumentDidClose:
		return s.handleDidClose(msg)
	case protocol.MethodWorkspaceDidChangeWorkspaceFolders:
		return nil
	default:
		if msg.isRequest() {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	root := workspaceRoot(&params)
	warnings, err := s.linter.State().Initialize(root)
	if err != nil {
		return s.sendError(msg.ID, codeInvalidRequest, err.Error())
	}
	for _, w := range warnings {
		if err := s.sendNotification(protocol.MethodWindowShowMessage, &protocol.ShowMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: w,
		}); err != nil {
			return err
		}
	}

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncKindFull,
			Workspace: &protocol.ServerCapabilitiesWorkspace{
				WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    serverName,
			Version: s.version,
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn("invalid didOpen params", zap.Error(err))
		return nil
	}
	doc := params.TextDocument
	s.enqueue(job{uri: doc.URI, version: doc.Version, text: doc.Text})
	return nil
}

// handleDidChange takes the whole text from the last change; the server
// only advertises full sync.
func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn("invalid didChange params", zap.Error(err))
		return nil
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	s.enqueue(job{uri: params.TextDocument.URI, version: params.TextDocument.Version, text: last.Text})
	return nil
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.log.Warn("invalid didClose params", zap.Error(err))
		return nil
	}
	s.enqueue(job{uri: params.TextDocument.URI, close: true})
	return nil
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendNotification(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	return s.send(msg)
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return s.out.Flush()
}
