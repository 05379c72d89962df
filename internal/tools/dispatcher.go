package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"runtime/debug"
	"sync"
	"time"

	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
)

// Call is a request to run one tool.
type Call struct {
	Name      string
	Arguments map[string]any
}

// Args gives handlers typed access to arguments the dispatcher already checked.
type Args map[string]any

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Has reports whether the named argument was supplied and is not null.
func (a Args) Has(name string) bool {
	v, ok := a[name]
	return ok && v != nil
}

// Number returns the named numeric argument.
func (a Args) Number(name string) (float64, bool) {
	return toFloat(a[name])
}

// Handler runs one tool. Returned errors become failure results.
type Handler func(ctx context.Context, args Args) (Result, error)

// Dispatcher routes calls to handlers, one call at a time.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string]Handler
	logger   *logging.AppLogger
}

// NewDispatcher wires every catalog tool to its handler in tb.
func NewDispatcher(tb *Toolbox, logger *logging.AppLogger) *Dispatcher {
	return &Dispatcher{
		handlers: map[string]Handler{
			ReadFile:         tb.readFile,
			WriteFile:        tb.writeFile,
			ListFiles:        tb.listFiles,
			ExecuteCommand:   tb.executeCommand,
			ProjectStructure: tb.projectStructure,
			GitStatus:        tb.gitStatus,
			FindClass:        tb.findClass,
		},
		logger: logger,
	}
}

// Catalog returns the descriptors of the tools this dispatcher serves.
func (d *Dispatcher) Catalog() []Descriptor {
	return Catalog()
}

// Dispatch runs call and always returns a result: unknown tools, bad
// arguments, handler errors and handler panics all become failures.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (result Result) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Tool handler panicked", "tool", call.Name, "panic", r, "stack", string(debug.Stack()))
			result = Failure(fmt.Sprintf("internal error: %v", r))
		}
		d.logger.LogToolCall(call.Name, start, result.IsError, result.Text())
	}()

	desc, ok := Lookup(call.Name)
	handler, registered := d.handlers[call.Name]
	if !ok || !registered {
		return Failure(mcperrors.UnknownTool(call.Name).Error())
	}

	args := Args(call.Arguments)
	if args == nil {
		args = Args{}
	}
	if err := checkArguments(desc, args); err != nil {
		return Failure(err.Error())
	}

	d.logger.Debug("Dispatching tool call", "tool", call.Name)
	res, err := handler(ctx, args)
	if err != nil {
		if mcperrors.Is(err, mcperrors.CodeProcessLaunch) {
			return CommandFailure(err.Error())
		}
		return Failure(err.Error())
	}
	return res
}

// checkArguments verifies required arguments are present and that every
// declared argument has its declared type. Undeclared arguments are ignored.
func checkArguments(desc Descriptor, args Args) error {
	for _, p := range desc.Params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return mcperrors.Argument("missing required argument: %s", p.Name)
			}
			continue
		}
		switch p.Type {
		case ParamString:
			if _, ok := v.(string); !ok {
				return mcperrors.Argument("argument %s must be a string", p.Name)
			}
		case ParamNumber:
			if _, ok := toFloat(v); !ok {
				return mcperrors.Argument("argument %s must be a number", p.Name)
			}
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
