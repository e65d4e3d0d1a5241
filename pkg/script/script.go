// Package script provides the Lisp console for driving a scene through
// the proxy layer. It wraps zygomys in a sandboxed environment; each
// evaluation gets a fresh sandbox bound to the session's scene engine.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/tether/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result bundles the output of an evaluation.
type Result struct {
	// Value is the printed form of the final expression, empty for an
	// empty program.
	Value string
}

// Session evaluates scripts against one scene engine. The scene itself
// is mutated by the builtins; the zygomys sandbox is rebuilt for every
// Evaluate call.
type Session struct {
	mu         sync.Mutex
	generation uint64
	eng        scene.Engine
}

// NewSession creates a session bound to the given engine. Engines that
// also implement scene.Creator expose the create/delete/parent
// builtins.
func NewSession(eng scene.Engine) *Session {
	return &Session{eng: eng}
}

// Evaluate runs a script against the session's scene.
//
// Return semantics:
//   - On success: result + nil errors + nil error
//   - On parse/eval failure: nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (s *Session) Evaluate(source string) (*Result, []EvalError, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := s.evaluate(source)
		ch <- evalOutcome{result: res, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &s.mu, &s.generation)
}

func (s *Session) evaluate(source string) (*Result, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return &Result{}, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and
	// syscalls; only the registered builtins reach the scene.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, s.eng)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseEvalError(err), nil
	}

	last, err := env.Run()
	if err != nil {
		return nil, parseEvalError(err), nil
	}

	res := &Result{}
	if last != nil && last != zygo.SexpNull {
		res.Value = last.SexpString(nil)
	}
	return res, nil, nil
}

// linePattern matches error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseEvalError converts a zygomys error into EvalError values,
// extracting line information from the message when present.
func parseEvalError(err error) []EvalError {
	msg := err.Error()

	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: msg}}
}
