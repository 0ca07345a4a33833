package lsp

import (
	"context"
	"fmt"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// job is one publication for a document: an analysis pass, or an empty
// list when the document was closed. A job with flushed set publishes
// nothing and closes the channel once every earlier job is done.
type job struct {
	uri     protocol.DocumentURI
	version int32
	text    string
	close   bool
	seq     uint64
	flushed chan struct{}
}

func (s *Server) enqueue(j job) {
	s.mu.Lock()
	s.seq++
	j.seq = s.seq
	s.latest[j.uri] = j.seq
	s.mu.Unlock()
	s.log.Debug("queued", zap.String("uri", string(j.uri)), zap.Int32("version", j.version), zap.Bool("close", j.close))
	s.jobs <- j
}

// flush blocks until the worker has handled every job queued before the call.
func (s *Server) flush() {
	done := make(chan struct{})
	s.jobs <- job{flushed: done}
	<-done
}

// superseded reports whether a newer job for the same document is queued.
// Closing always publishes.
func (s *Server) superseded(j job) bool {
	if !s.dropSuperseded || j.close {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[j.uri] != j.seq
}

// done forgets a closed document once nothing newer is queued for it.
func (s *Server) done(j job) {
	if !j.close {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[j.uri] == j.seq {
		delete(s.latest, j.uri)
	}
}

// work runs jobs one at a time in arrival order.
func (s *Server) work(ctx context.Context) {
	for j := range s.jobs {
		if j.flushed != nil {
			close(j.flushed)
			continue
		}
		if s.superseded(j) {
			s.log.Debug("skipping superseded pass", zap.String("uri", string(j.uri)), zap.Int32("version", j.version))
			continue
		}
		if err := s.publish(ctx, j); err != nil {
			s.log.Error("publish diagnostics", zap.String("uri", string(j.uri)), zap.Error(err))
		}
		s.done(j)
	}
}

func (s *Server) publish(ctx context.Context, j job) error {
	diags := []protocol.Diagnostic{}
	if !j.close {
		var err error
		diags, err = s.linter.Analyze(ctx, j.text)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}
	version, err := safecast.Conv[uint32](j.version)
	if err != nil {
		version = 0
	}
	s.log.Debug("publish", zap.String("uri", string(j.uri)), zap.Uint32("version", version), zap.Int("diagnostics", len(diags)))
	return s.sendNotification(protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         j.uri,
		Version:     version,
		Diagnostics: diags,
	})
}
