package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/stackcalc/internal/command"
	"github.com/dshills/stackcalc/internal/config"
	"github.com/dshills/stackcalc/internal/event"
	"github.com/dshills/stackcalc/internal/history"
	"github.com/dshills/stackcalc/internal/interpreter"
	"github.com/dshills/stackcalc/internal/logging"
	"github.com/dshills/stackcalc/internal/plugin"
	"github.com/dshills/stackcalc/internal/registry"
	"github.com/dshills/stackcalc/internal/stack"
)

// MsgManifestChanged is posted when the plugin manifest changes on disk.
const MsgManifestChanged = "plugin manifest changed; restart to reload plugins"

// UI is the front end a session drives. Its publisher must have the
// CommandEntered event registered.
type UI interface {
	PostMessage(msg string)
	StackChanged(v stack.View)
	Attach(eventName string, obs event.Observer) error
	Detach(eventName, observerName string) (event.Observer, error)
}

// job is one queued entry.
type job struct {
	text   string
	notice string
	done   chan struct{}
}

// Session owns every calculator component for one run.
type Session struct {
	id     string
	cfg    *config.Config
	ui     UI
	logger *logging.Logger

	loader   *plugin.Loader
	registry *registry.Registry
	stack    *stack.Stack
	interp   *interpreter.Interpreter
	watcher  *plugin.Watcher
	injected []string

	// mu serializes entry processing and teardown.
	mu       sync.Mutex
	tornDown bool

	queue    chan job
	loopMu   sync.Mutex
	loopDone chan struct{}

	closed atomic.Bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader supplies the plugin loader.
func WithLoader(l *plugin.Loader) Option {
	return func(s *Session) {
		s.loader = l
	}
}

// NewSession builds a session: plugin loader, registry with the core
// commands, stack and interpreter, in that order. Plugins named in the
// configured manifest are loaded and registered, and the session is
// attached to the front end's events.
func NewSession(cfg *config.Config, ui UI, opts ...Option) (*Session, error) {
	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		ui:     ui,
		logger: logging.Nop(),
		queue:  make(chan job),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("session").WithField("session", s.id)

	strategy, err := history.ParseStrategy(cfg.History().Strategy)
	if err != nil {
		return nil, &InitError{Component: "history", Err: err}
	}

	pcfg := cfg.Plugins()
	if s.loader == nil {
		s.loader = plugin.NewLoader(
			plugin.WithLogger(s.logger),
			plugin.WithLuaTimeout(pcfg.LuaTimeout),
		)
	}

	s.registry = registry.New()
	if err := command.RegisterCoreCommands(s.registry); err != nil {
		_ = s.loader.Close()
		return nil, &InitError{Component: "registry", Err: err}
	}

	s.stack = stack.New()
	s.interp = interpreter.New(s.registry, s.stack, ui,
		interpreter.WithStrategy(strategy),
		interpreter.WithLogger(s.logger),
	)

	s.loader.LoadPlugins(ui, pcfg.Manifest)
	s.injected = s.loader.Register(ui, s.registry)
	if len(s.injected) > 0 {
		s.logger.Info("plugin commands: %v", s.injected)
	}

	if err := s.attach(); err != nil {
		s.teardown()
		return nil, &InitError{Component: "observers", Err: err}
	}

	if pcfg.Watch {
		s.watch(pcfg.Manifest)
	}

	s.logger.Info("session started (history %s)", strategy)
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// Stack returns the session's stack.
func (s *Session) Stack() stack.View {
	return s.stack
}

// Interpreter returns the session's interpreter.
func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interp
}

// PluginCommands returns the names registered from plugins, sorted.
func (s *Session) PluginCommands() []string {
	out := make([]string, len(s.injected))
	copy(out, s.injected)
	return out
}

// Plugins describes every library the loader opened.
func (s *Session) Plugins() []plugin.Record {
	return s.loader.Records()
}

// Run processes queued entries on the calling goroutine until ctx is done
// or the session is closed. Without a running queue, Submit processes
// entries on the caller's goroutine.
func (s *Session) Run(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.loopMu.Lock()
	if s.loopDone != nil {
		s.loopMu.Unlock()
		return ErrAlreadyRunning
	}
	stop := make(chan struct{})
	s.loopDone = stop
	s.loopMu.Unlock()

	defer func() {
		s.loopMu.Lock()
		s.loopDone = nil
		close(stop)
		s.loopMu.Unlock()
	}()

	for {
		select {
		case j := <-s.queue:
			s.process(j)
			close(j.done)
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		}
	}
}

// Submit interprets one token and returns once it has been processed.
func (s *Session) Submit(text string) error {
	return s.enqueue(job{text: text})
}

// notify posts msg to the front end through the queue.
func (s *Session) notify(msg string) error {
	return s.enqueue(job{notice: msg})
}

func (s *Session) enqueue(j job) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.loopMu.Lock()
	stop := s.loopDone
	s.loopMu.Unlock()

	if stop == nil {
		return s.process(j)
	}

	j.done = make(chan struct{})
	select {
	case s.queue <- j:
		<-j.done
		return nil
	case <-stop:
		return s.process(j)
	case <-s.done:
		return ErrSessionClosed
	}
}

func (s *Session) process(j job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tornDown {
		return ErrSessionClosed
	}
	if j.notice != "" {
		s.ui.PostMessage(j.notice)
		return nil
	}
	s.interp.CommandEntered(j.text)
	return nil
}

// Close stops the queue and the manifest watcher, then tears components
// down in reverse order of construction. It returns plugin loader errors.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.logger.Warn("close watcher: %v", err)
		}
	}
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.teardown()
	s.logger.Info("session closed")
	return err
}

// teardown releases everything NewSession built: observers, history,
// registry, then the plugin libraries.
func (s *Session) teardown() error {
	s.tornDown = true
	s.detach()
	s.interp.Close()
	s.registry.Clear()
	return s.loader.Close()
}

func (s *Session) attach() error {
	if err := s.ui.Attach(CommandEntered, newCommandIssued(s)); err != nil {
		return err
	}
	if err := s.stack.Attach(stack.StackChanged, newStackUpdated(s.ui, s.stack)); err != nil {
		return err
	}
	return s.stack.Attach(stack.StackError, newStackFailed(s))
}

func (s *Session) detach() {
	detachments := []struct {
		pub interface {
			Detach(eventName, observerName string) (event.Observer, error)
		}
		event, name string
	}{
		{s.ui, CommandEntered, CommandIssued},
		{s.stack, stack.StackChanged, StackUpdated},
		{s.stack, stack.StackError, StackFailed},
	}
	for _, d := range detachments {
		if _, err := d.pub.Detach(d.event, d.name); err != nil && !errors.Is(err, event.ErrObserverNotFound) {
			s.logger.Debug("detach %s: %v", d.name, err)
		}
	}
}

// watch posts MsgManifestChanged whenever the manifest changes. Watcher
// failures are logged and leave the session without a watcher.
func (s *Session) watch(manifest string) {
	w, err := plugin.NewWatcher(manifest)
	if err != nil {
		s.logger.Warn("watch %s: %v", manifest, err)
		return
	}
	s.watcher = w

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		events, errs := w.Events(), w.Errors()
		for events != nil || errs != nil {
			select {
			case path, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				s.logger.Info("manifest changed: %s", path)
				if err := s.notify(MsgManifestChanged); err != nil {
					return
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				s.logger.Warn("manifest watcher: %v", err)
			}
		}
	}()
}
