package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

// Form tells which shape a [Result] has.
type Form int

const (
	FormError Form = iota
	FormGraph
	FormSubgraphs
)

func (f Form) String() string {
	switch f {
	case FormGraph:
		return "graph"
	case FormSubgraphs:
		return "subgraphs"
	default:
		return "error"
	}
}

// Result is the outcome of interpreting one description.
type Result struct {
	form      Form
	graph     *Directive
	subgraphs []*Directive
	err       *errors.Error
}

// Form returns the result's shape.
func (r *Result) Form() Form { return r.form }

// Graph returns the whole-graph directive. For error results it returns a
// directive carrying only the error message. It returns nil for subgraph
// results.
func (r *Result) Graph() *Directive { return r.graph }

// Subgraphs returns the subgraph directives in source order, or nil.
func (r *Result) Subgraphs() []*Directive {
	return append([]*Directive(nil), r.subgraphs...)
}

// Directives returns every layout directive of the result: the graph
// directive, or the subgraph directives. Error results have none.
func (r *Result) Directives() []*Directive {
	switch r.form {
	case FormGraph:
		return []*Directive{r.graph}
	case FormSubgraphs:
		return r.Subgraphs()
	default:
		return nil
	}
}

// Err returns the error of an error result, or nil. The returned error is
// an *errors.Error.
func (r *Result) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

func graphResult(d *Directive) *Result {
	return &Result{form: FormGraph, graph: d}
}

func subgraphResult(ds []*Directive) *Result {
	return &Result{form: FormSubgraphs, subgraphs: ds}
}

// errorResult builds an error result. The directive carries the error's
// user message, which for syntax errors is the parser's message.
func errorResult(err *errors.Error) *Result {
	return &Result{form: FormError, graph: ErrorDirective(err.Message), err: err}
}

// Interpreter converts layout descriptions into results.
type Interpreter struct {
	logger *log.Logger
}

// NewInterpreter returns an interpreter logging to logger. A nil logger
// discards output.
func NewInterpreter(logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Interpreter{logger: logger}
}

var defaultInterpreter = NewInterpreter(nil)

// Interpret interprets src with a non-logging interpreter.
func Interpret(src string) *Result {
	return defaultInterpreter.Interpret(src)
}

// Interpret parses src and builds its directives. It never panics and
// never returns partial results: any failure produces an error result.
func (in *Interpreter) Interpret(src string) *Result {
	return in.guard(func() *Result {
		model, err := syntax.Parse(src)
		if err != nil {
			return errorResult(errors.Wrap(errors.ErrCodeSyntax, err, "%s", err.Error()))
		}
		return build(model)
	})
}

// InterpretModel builds the directives of an already parsed model. Nodes
// the parser would never produce, such as an empty layout type, become
// error results exactly as in [Interpreter.Interpret].
func (in *Interpreter) InterpretModel(model *syntax.Model) *Result {
	return in.guard(func() *Result {
		if model == nil {
			return errorResult(errors.New(errors.ErrCodeMalformedNode, "model is missing"))
		}
		return build(model)
	})
}

func (in *Interpreter) guard(fn func() *Result) (res *Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = errorResult(errors.New(errors.ErrCodeInternal, "interpreter panic: %v", p))
		}
		in.log(res, time.Since(start))
	}()
	return fn()
}

func (in *Interpreter) log(res *Result, elapsed time.Duration) {
	if res.err != nil {
		in.logger.Debug("interpretation failed",
			"code", res.err.Code,
			"error", res.err.Message,
			"duration", elapsed)
		return
	}
	in.logger.Debug("interpreted layout",
		"form", res.form,
		"directives", len(res.Directives()),
		"duration", elapsed)
}

func build(model *syntax.Model) *Result {
	if model.IsGraph() {
		if model.Graph.Layout == nil {
			return errorResult(errors.New(errors.ErrCodeMalformedNode, "graph declaration has no layout"))
		}
		d, err := Classify(Target{Graph: TargetGraph}, model.Graph.Layout)
		if err != nil {
			return errorResult(asError(err))
		}
		return graphResult(d)
	}

	if len(model.Subgraphs) == 0 {
		return errorResult(errors.New(errors.ErrCodeMalformedNode, "model has neither a graph nor subgraph declarations"))
	}
	ds := make([]*Directive, 0, len(model.Subgraphs))
	for i, decl := range model.Subgraphs {
		if decl == nil {
			return errorResult(errors.New(errors.ErrCodeMalformedNode, "subgraph declaration %d is missing", i+1))
		}
		d, err := Classify(ResolveSubgraph(decl.Subgraph), decl.Layout)
		if err != nil {
			return errorResult(asError(err))
		}
		ds = append(ds, d)
	}
	return subgraphResult(ds)
}

func asError(err error) *errors.Error {
	if e, ok := errors.From(err); ok {
		return e
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", err.Error())
}
