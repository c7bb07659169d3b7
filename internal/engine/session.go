package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/itsmostafa/gojs/internal/logging"
)

// ReplSource is the source name used for interactively entered fragments.
const ReplSource = "<repl>"

var log = logging.Get("engine")

// Session owns the realm for one REPL or batch run. It is not safe for
// concurrent use.
type Session struct {
	id       string
	backend  Backend
	realm    Realm
	executed int
	faulted  bool
}

// NewSession creates a session with a fresh realm from backend.
func NewSession(backend Backend, streams IO) (*Session, error) {
	if backend == nil {
		return nil, errors.New("no backend selected")
	}
	realm, err := backend.NewRealm(streams.withDefaults())
	if err != nil {
		return nil, fmt.Errorf("failed to create %s realm: %w", backend.Kind(), err)
	}

	s := &Session{
		id:      uuid.New().String(),
		backend: backend,
		realm:   realm,
	}
	log.Infof("session %s started with %s backend", s.id, backend.Kind())
	return s, nil
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Backend returns the backend the session was created with.
func (s *Session) Backend() Backend {
	return s.backend
}

// Executed returns the number of fragments run against the session.
func (s *Session) Executed() int {
	return s.executed
}

// Execute runs an interactively entered fragment.
func Execute(s *Session, fragment string) Outcome {
	return ExecuteSource(s, ReplSource, fragment)
}

// ExecuteSource runs fragment against the session's realm, naming it name in
// diagnostics. Runtime errors become a KindRuntime failure and leave the
// session usable. A panic from the engine becomes a KindFatal failure and the
// session refuses further work.
func ExecuteSource(s *Session, name, fragment string) (out Outcome) {
	if s.faulted {
		return Outcome{Failure: &Failure{
			Kind:    KindFatal,
			Name:    "FatalEngineFault",
			Message: "session is unusable after an earlier engine fault",
			Source:  fragment,
		}}
	}

	s.executed++
	defer func() {
		if r := recover(); r != nil {
			s.faulted = true
			fault := &FatalError{Value: r, Stack: debug.Stack()}
			log.Errorf("session %s: %v", s.id, fault)
			out = Outcome{Failure: &Failure{
				Kind:    KindFatal,
				Name:    "FatalEngineFault",
				Message: fmt.Sprint(r),
				Source:  fragment,
				Stack:   string(fault.Stack),
			}}
		}
	}()

	value, err := s.realm.Eval(name, fragment)
	if err != nil {
		return failureOutcome(err, fragment)
	}
	return Outcome{Value: value}
}

func failureOutcome(err error, fragment string) Outcome {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return Outcome{Failure: &Failure{
			Kind:    KindRuntime,
			Name:    rtErr.Name,
			Message: rtErr.Message,
			Span:    rtErr.Span,
			Source:  fragment,
		}}
	}

	var synErr *SyntaxError
	if errors.As(err, &synErr) {
		return Outcome{Failure: &Failure{
			Kind:    KindRuntime,
			Name:    "SyntaxError",
			Message: synErr.Message,
			Span:    synErr.Span,
			Source:  fragment,
		}}
	}

	return Outcome{Failure: &Failure{
		Kind:    KindRuntime,
		Name:    "Error",
		Message: err.Error(),
		Source:  fragment,
	}}
}
