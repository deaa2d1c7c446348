package layout

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

// Expression is a disjunction of terms. It always has at least one term.
type Expression struct {
	Terms []*Term `json:"terms"`
}

// Term is a conjunction of factors. It always has at least one factor.
type Term struct {
	Factors []*Factor `json:"factors"`
}

// Factor is an optionally negated criterion or parenthesized expression.
// Exactly one of Criterion and Expression is set.
type Factor struct {
	Negated    bool        `json:"negated,omitempty"`
	Criterion  *Properties `json:"criterion,omitempty"`
	Expression *Expression `json:"expression,omitempty"`
}

// Validate checks the shape invariants: at least one term, at least one
// factor per term, and exactly one of criterion and sub-expression per
// factor, at every depth.
func (e *Expression) Validate() error {
	if len(e.Terms) == 0 {
		return errors.New(errors.ErrCodeMalformedNode, "expression has no terms")
	}
	for _, t := range e.Terms {
		if t == nil || len(t.Factors) == 0 {
			return errors.New(errors.ErrCodeMalformedNode, "expression term has no factors")
		}
		for _, f := range t.Factors {
			if f == nil {
				return errors.New(errors.ErrCodeMalformedNode, "expression factor is missing")
			}
			if (f.Criterion != nil) == (f.Expression != nil) {
				return errors.New(errors.ErrCodeMalformedFactor, "factor must have exactly one of a criterion and a sub-expression")
			}
			if f.Expression != nil {
				if err := f.Expression.Validate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. The decoded expression must
// pass [Expression.Validate].
func (e *Expression) UnmarshalJSON(data []byte) error {
	type plain Expression
	var w plain
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded := Expression(w)
	if err := decoded.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode expression")
	}
	*e = decoded
	return nil
}

// IsCriterion reports whether the factor is a leaf.
func (f *Factor) IsCriterion() bool { return f.Criterion != nil }

// String renders the expression with explicit operators, parenthesizing
// nested expressions. Criteria with parameters are written as
// name(k=v, ...).
func (e *Expression) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expression) write(b *strings.Builder) {
	for i, t := range e.Terms {
		if i > 0 {
			b.WriteString(" OR ")
		}
		for j, f := range t.Factors {
			if j > 0 {
				b.WriteString(" AND ")
			}
			if f.Negated {
				b.WriteString("NOT ")
			}
			if f.Expression != nil {
				b.WriteByte('(')
				f.Expression.write(b)
				b.WriteByte(')')
				continue
			}
			writeCriterion(b, f.Criterion)
		}
	}
}

func writeCriterion(b *strings.Builder, c *Properties) {
	b.WriteString(c.Name())
	first := true
	for k, v := range c.All() {
		if k == "name" {
			continue
		}
		if first {
			b.WriteByte('(')
			first = false
		} else {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(FormatValue(v))
	}
	if !first {
		b.WriteByte(')')
	}
}

// BuildExpression converts a criteria expression syntax tree into an
// [Expression], preserving term and factor order and per-factor negation.
//
// It fails with [errors.ErrCodeMalformedFactor] if a factor has neither or
// both of a criterion and a sub-expression, and with
// [errors.ErrCodeMalformedNode] if the tree has an empty term list, an
// empty factor list or a nil node.
func BuildExpression(node *syntax.Expression) (*Expression, error) {
	if node == nil {
		return nil, errors.New(errors.ErrCodeMalformedNode, "expression is missing")
	}
	if len(node.Terms) == 0 {
		return nil, errors.New(errors.ErrCodeMalformedNode, "expression has no terms")
	}

	expr := &Expression{Terms: make([]*Term, 0, len(node.Terms))}
	for _, tn := range node.Terms {
		if tn == nil || len(tn.Factors) == 0 {
			return nil, errors.New(errors.ErrCodeMalformedNode, "expression term has no factors")
		}
		term := &Term{Factors: make([]*Factor, 0, len(tn.Factors))}
		for _, fn := range tn.Factors {
			f, err := buildFactor(fn)
			if err != nil {
				return nil, err
			}
			term.Factors = append(term.Factors, f)
		}
		expr.Terms = append(expr.Terms, term)
	}
	return expr, nil
}

func buildFactor(node *syntax.Factor) (*Factor, error) {
	if node == nil {
		return nil, errors.New(errors.ErrCodeMalformedNode, "expression factor is missing")
	}
	hasCriterion, hasExpr := node.Criterion != nil, node.Expression != nil
	switch {
	case hasCriterion && hasExpr:
		return nil, errors.New(errors.ErrCodeMalformedFactor, "factor has both a criterion and a sub-expression")
	case !hasCriterion && !hasExpr:
		return nil, errors.New(errors.ErrCodeMalformedFactor, "factor has neither a criterion nor a sub-expression")
	}

	f := &Factor{Negated: node.Not}
	if hasCriterion {
		f.Criterion = Extract(node.Criterion)
		return f, nil
	}
	sub, err := BuildExpression(node.Expression)
	if err != nil {
		return nil, err
	}
	f.Expression = sub
	return f, nil
}
