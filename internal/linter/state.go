package linter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"svls/internal/config"
	"svls/internal/lint"
	"svls/internal/syntax"
)

// Checker runs rules over traversal events. Implementations may keep state
// across the events of one pass, so the State hands it to one pass at a time.
type Checker interface {
	Reset()
	Check(tree *syntax.Tree, ev syntax.Event) []lint.Failed
}

type Phase uint8

const (
	Uninitialized Phase = iota
	Initialized
	ShuttingDown
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case ShuttingDown:
		return "shutting down"
	}
	return "unknown"
}

var ErrAlreadyInitialized = errors.New("server state already initialized")

const (
	configFallback = "Use the default configuration."
	rulesFallback  = "Enable all lint rules."
)

type Options struct {
	// WorkDir is where the configuration search starts; "" is the process
	// working directory.
	WorkDir string
	// NewChecker builds the checker from rule settings; nil uses lint.New.
	NewChecker func(lint.Settings) Checker
}

// State is written once by Initialize and read by every analysis pass.
// root and cfg are guarded by mu; the checker by sem for a whole rule pass.
type State struct {
	opts Options
	log  *zap.Logger

	mu            sync.RWMutex
	phase         Phase
	root          string
	cfg           config.Config
	ignoreInclude bool
	checker       Checker

	sem *semaphore.Weighted
}

func NewState(log *zap.Logger, opts Options) *State {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.NewChecker == nil {
		opts.NewChecker = func(s lint.Settings) Checker { return lint.New(s) }
	}
	return &State{
		opts: opts,
		log:  log,
		sem:  semaphore.NewWeighted(1),
	}
}

// Initialize captures the project root and resolves the configuration. Any
// configuration error falls back to defaults and becomes a warning for the
// user. A second call does nothing and returns ErrAlreadyInitialized.
func (s *State) Initialize(rootPath string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != Uninitialized {
		return nil, ErrAlreadyInitialized
	}

	var warnings []string
	path, found := s.search(config.FileName)
	s.log.Debug("config search", zap.String("file", config.FileName), zap.String("path", path), zap.Bool("found", found))
	cfg, err := config.Load(path, found)
	if err != nil {
		s.log.Warn("falling back to default configuration", zap.Error(err))
		warnings = append(warnings, notice(err, configFallback))
		cfg = config.Default()
	}

	if cfg.Option.Linter {
		path, found = s.search(config.RuleFileName)
		s.log.Debug("config search", zap.String("file", config.RuleFileName), zap.String("path", path), zap.Bool("found", found))
		settings, err := config.LoadRuleSettings(path, found)
		if err != nil {
			s.log.Warn("enabling all rules", zap.Error(err))
			warnings = append(warnings, notice(err, rulesFallback))
			settings = lint.EnableAll()
		}
		s.checker = s.opts.NewChecker(settings)
		s.ignoreInclude = settings.Option.IgnoreInclude
	}

	s.root = rootPath
	s.cfg = cfg
	s.phase = Initialized
	s.log.Info("initialized",
		zap.String("root", rootPath),
		zap.Strings("include_paths", cfg.Verilog.IncludePaths),
		zap.Strings("defines", cfg.Verilog.Defines),
		zap.Bool("linter", cfg.Option.Linter),
	)
	return warnings, nil
}

// Shutdown moves to ShuttingDown. There is nothing to release.
func (s *State) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = ShuttingDown
}

func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Config returns the resolved configuration.
func (s *State) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

type snapshot struct {
	root          string
	cfg           config.Config
	ignoreInclude bool
	checker       Checker
}

// snapshot returns what one pass reads; ok is false outside Initialized.
func (s *State) snapshot() (snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.phase != Initialized {
		return snapshot{}, false
	}
	return snapshot{root: s.root, cfg: s.cfg, ignoreInclude: s.ignoreInclude, checker: s.checker}, true
}

// check runs a full rule pass over tree with exclusive use of the checker.
func (s *State) check(ctx context.Context, c Checker, tree *syntax.Tree) ([]lint.Failed, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire checker: %w", err)
	}
	defer s.sem.Release(1)

	c.Reset()
	var out []lint.Failed
	for _, ev := range tree.Events() {
		out = append(out, c.Check(tree, ev)...)
	}
	return out, nil
}

func (s *State) search(name string) (string, bool) {
	if s.opts.WorkDir == "" {
		return config.Search(name)
	}
	return config.SearchFrom(s.opts.WorkDir, name)
}

func notice(err error, fallback string) string {
	var cerr *config.Error
	if errors.As(err, &cerr) {
		return cerr.Notice(fallback)
	}
	return err.Error() + ". " + fallback
}
