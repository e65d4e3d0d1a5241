package main

import (
	"context"
	"log"

	"github.com/chazu/tether/pkg/outline"
	"github.com/chazu/tether/pkg/scene/memory"
	"github.com/chazu/tether/pkg/script"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx     context.Context
	scene   *memory.Scene
	session *script.Session
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Value   string          `json:"value"`
	Outline outline.Outline `json:"outline"`
	Errors  []EvalErrorData `json:"errors"`
}

// NewApp creates a new App with an empty scene and a console session
// bound to it.
func NewApp() *App {
	sc := memory.New()
	return &App{
		scene:   sc,
		session: script.NewSession(sc),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate runs console source against the scene and returns the result
// value, the refreshed outline tree and any errors. This is the primary
// binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Errors: []EvalErrorData{},
	}

	res, evalErrs, err := a.session.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: err.Error(),
		})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		// Still refresh the outline: earlier expressions may have
		// mutated the scene before the failing one.
		if tree, err := outline.Build(a.scene); err == nil {
			result.Outline = tree
		}
		return result
	}
	result.Value = res.Value

	tree, err := outline.Build(a.scene)
	if err != nil {
		log.Printf("Outline error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: "outline failed: " + err.Error(),
		})
		return result
	}
	result.Outline = tree

	return result
}

// Reset discards the scene and starts a fresh session against an empty
// one. Any node references the frontend still holds go stale.
func (a *App) Reset() {
	a.scene = memory.New()
	a.session = script.NewSession(a.scene)
}

// CurrentOutline returns the outline tree without evaluating anything.
func (a *App) CurrentOutline() EvalResult {
	result := EvalResult{
		Errors: []EvalErrorData{},
	}
	tree, err := outline.Build(a.scene)
	if err != nil {
		log.Printf("Outline error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: err.Error(),
		})
		return result
	}
	result.Outline = tree
	return result
}
