package layout

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

// Kind identifies which payload a [Directive] carries.
type Kind int

const (
	// KindNone marks a directive that only carries an error message.
	KindNone Kind = iota
	KindStyle
	KindAlgorithm
	KindCriteria
	KindExpression
)

var kindNames = [...]string{
	KindNone:       "none",
	KindStyle:      "style",
	KindAlgorithm:  "algorithm",
	KindCriteria:   "criteria",
	KindExpression: "expression",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown directive kind %q", text)
}

// Target is the part of the graph a directive applies to.
type Target struct {
	// Graph is "graph", "others" or a comma separated vertex list.
	Graph string
	// Content reports whether the vertex list addresses vertices by content.
	Content bool
}

// Target values that do not come from a vertex list.
const (
	TargetGraph  = "graph"
	TargetOthers = "others"
)

// Directive says how one target should be laid out. Exactly one payload,
// selected by Kind, is populated; error directives populate none.
type Directive struct {
	graph        string
	kind         Kind
	style        string
	algorithm    *Properties
	criteria     []*Properties
	expression   *Expression
	graphContent bool
	err          string
}

// NewStyleDirective returns a directive applying a named style. The style
// must not be empty.
func NewStyleDirective(t Target, style string) (*Directive, error) {
	if style == "" {
		return nil, errors.New(errors.ErrCodeMalformedNode, "style directive has no style")
	}
	return &Directive{graph: t.Graph, graphContent: t.Content, kind: KindStyle, style: style}, nil
}

// NewAlgorithmDirective returns a directive applying an algorithm whose
// name and settings are given as properties.
func NewAlgorithmDirective(t Target, algorithm *Properties) (*Directive, error) {
	if algorithm == nil {
		return nil, errors.New(errors.ErrCodeMalformedNode, "algorithm directive has no properties")
	}
	return &Directive{graph: t.Graph, graphContent: t.Content, kind: KindAlgorithm, algorithm: algorithm}, nil
}

// NewCriteriaDirective returns a directive listing aesthetic criteria, all
// of which should hold. The list must hold at least one criterion.
func NewCriteriaDirective(t Target, criteria []*Properties) (*Directive, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	return &Directive{graph: t.Graph, graphContent: t.Content, kind: KindCriteria, criteria: append([]*Properties(nil), criteria...)}, nil
}

// NewExpressionDirective returns a directive constrained by a boolean
// criteria expression. The expression must pass [Expression.Validate].
func NewExpressionDirective(t Target, expr *Expression) (*Directive, error) {
	if expr == nil {
		return nil, errors.New(errors.ErrCodeMalformedNode, "expression directive has no expression")
	}
	if err := expr.Validate(); err != nil {
		return nil, err
	}
	return &Directive{graph: t.Graph, graphContent: t.Content, kind: KindExpression, expression: expr}, nil
}

func validateCriteria(criteria []*Properties) error {
	if len(criteria) == 0 {
		return errors.New(errors.ErrCodeMalformedNode, "criteria directive has no criteria")
	}
	for _, c := range criteria {
		if c == nil {
			return errors.New(errors.ErrCodeMalformedNode, "criteria list contains a missing criterion")
		}
	}
	return nil
}

// ErrorDirective returns a directive that only carries msg.
func ErrorDirective(msg string) *Directive {
	return &Directive{err: msg}
}

// Graph returns the directive's target.
func (d *Directive) Graph() string { return d.graph }

// Kind returns which payload the directive carries.
func (d *Directive) Kind() Kind { return d.kind }

// Style returns the style name of a style directive.
func (d *Directive) Style() string { return d.style }

// Algorithm returns the algorithm properties of an algorithm directive.
// The "name" entry holds the algorithm's name.
func (d *Directive) Algorithm() *Properties { return d.algorithm }

// Criteria returns the criteria of a criteria directive, in source order.
func (d *Directive) Criteria() []*Properties {
	return append([]*Properties(nil), d.criteria...)
}

// Expression returns the criteria expression of an expression directive.
func (d *Directive) Expression() *Expression { return d.expression }

// GraphContent reports whether the target vertices are addressed by
// content rather than by index.
func (d *Directive) GraphContent() bool { return d.graphContent }

// ErrorMessage returns the message of an error directive, or "".
func (d *Directive) ErrorMessage() string { return d.err }

// IsError reports whether the directive only carries an error.
func (d *Directive) IsError() bool { return d.err != "" }

// Summary renders the payload on one line, for display.
func (d *Directive) Summary() string {
	switch d.kind {
	case KindStyle:
		return d.style
	case KindAlgorithm:
		var b strings.Builder
		b.WriteString(d.algorithm.Name())
		var settings []string
		for k, v := range d.algorithm.All() {
			if k != "name" {
				settings = append(settings, k+"="+FormatValue(v))
			}
		}
		if len(settings) > 0 {
			b.WriteString(" (" + strings.Join(settings, ", ") + ")")
		}
		return b.String()
	case KindCriteria:
		parts := make([]string, len(d.criteria))
		for i, c := range d.criteria {
			var b strings.Builder
			writeCriterion(&b, c)
			parts[i] = b.String()
		}
		return strings.Join(parts, ", ")
	case KindExpression:
		return d.expression.String()
	default:
		return d.err
	}
}

type directiveJSON struct {
	Graph        string        `json:"graph,omitempty"`
	Kind         Kind          `json:"kind,omitempty"`
	Style        string        `json:"style,omitempty"`
	Algorithm    *Properties   `json:"algorithm,omitempty"`
	Criteria     []*Properties `json:"criteria,omitempty"`
	Expression   *Expression   `json:"expression,omitempty"`
	GraphContent bool          `json:"graphContent"`
	Error        string        `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *Directive) MarshalJSON() ([]byte, error) {
	return json.Marshal(directiveJSON{
		Graph:        d.graph,
		Kind:         d.kind,
		Style:        d.style,
		Algorithm:    d.algorithm,
		Criteria:     d.criteria,
		Expression:   d.expression,
		GraphContent: d.graphContent,
		Error:        d.err,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded directive must
// satisfy the same payload rules the constructors enforce.
func (d *Directive) UnmarshalJSON(data []byte) error {
	var w directiveJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := w.validate(); err != nil {
		return err
	}
	*d = Directive{
		graph:        w.Graph,
		kind:         w.Kind,
		style:        w.Style,
		algorithm:    w.Algorithm,
		criteria:     w.Criteria,
		expression:   w.Expression,
		graphContent: w.GraphContent,
		err:          w.Error,
	}
	return nil
}

func (w *directiveJSON) validate() error {
	populated := 0
	for _, ok := range []bool{w.Style != "", w.Algorithm != nil, w.Criteria != nil, w.Expression != nil} {
		if ok {
			populated++
		}
	}
	want := 1
	if w.Kind == KindNone {
		want = 0
	}
	if populated != want {
		return errors.New(errors.ErrCodeInvalidFormat, "directive of kind %s has %d payloads", w.Kind, populated)
	}

	switch w.Kind {
	case KindStyle:
		if w.Style == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "style directive has no style")
		}
	case KindAlgorithm:
		if w.Algorithm == nil {
			return errors.New(errors.ErrCodeInvalidFormat, "algorithm directive has no properties")
		}
	case KindCriteria:
		if err := validateCriteria(w.Criteria); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "criteria directive")
		}
	case KindExpression:
		if w.Expression == nil {
			return errors.New(errors.ErrCodeInvalidFormat, "expression directive has no expression")
		}
	}
	return nil
}

// Classify turns a layout type into a directive for target, according to
// which of its parts is populated. It fails with
// [errors.ErrCodeUnclassifiable] if none or more than one is.
func Classify(t Target, node *syntax.LayoutType) (*Directive, error) {
	if node == nil {
		return nil, errors.New(errors.ErrCodeMalformedNode, "layout type is missing")
	}

	var found []Kind
	if node.Style != "" {
		found = append(found, KindStyle)
	}
	if node.Algorithm != nil {
		found = append(found, KindAlgorithm)
	}
	if len(node.Criteria) > 0 {
		found = append(found, KindCriteria)
	}
	if node.Expression != nil {
		found = append(found, KindExpression)
	}
	switch len(found) {
	case 0:
		return nil, errors.New(errors.ErrCodeUnclassifiable, "layout type at %s has no style, algorithm, criteria or expression", node.Pos())
	case 1:
	default:
		return nil, errors.New(errors.ErrCodeUnclassifiable, "layout type at %s is ambiguous: %v", node.Pos(), found)
	}

	switch found[0] {
	case KindStyle:
		return NewStyleDirective(t, node.Style)
	case KindAlgorithm:
		return NewAlgorithmDirective(t, Extract(node.Algorithm))
	case KindCriteria:
		criteria := make([]*Properties, 0, len(node.Criteria))
		for _, c := range node.Criteria {
			if c == nil {
				return nil, errors.New(errors.ErrCodeMalformedNode, "criteria list contains a missing criterion")
			}
			criteria = append(criteria, Extract(c))
		}
		return NewCriteriaDirective(t, criteria)
	default:
		expr, err := BuildExpression(node.Expression)
		if err != nil {
			return nil, err
		}
		return NewExpressionDirective(t, expr)
	}
}
