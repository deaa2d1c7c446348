package layout

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

func interpretOK(t *testing.T, src string) *Result {
	t.Helper()
	res := Interpret(src)
	require.NoError(t, res.Err(), "Interpret(%q)", src)
	return res
}

func TestInterpretSingleGraph(t *testing.T) {
	res := interpretOK(t, "layout graph style hierarchical")

	require.Equal(t, FormGraph, res.Form())
	require.Len(t, res.Directives(), 1)
	require.Nil(t, res.Subgraphs())

	d := res.Graph()
	require.Equal(t, "graph", d.Graph())
	require.Equal(t, KindStyle, d.Kind())
	require.Equal(t, "hierarchical", d.Style())
	require.Nil(t, d.Algorithm())
	require.Empty(t, d.Criteria())
	require.Nil(t, d.Expression())
	require.False(t, d.GraphContent())
	require.False(t, d.IsError())
}

func TestInterpretSubgraphsKeepSourceOrder(t *testing.T) {
	res := interpretOK(t, `
layout subgraph {2, 5} style tree
layout subgraph {db, cache} algorithm circular
lay out others criteria planarity`)

	require.Equal(t, FormSubgraphs, res.Form())
	require.Nil(t, res.Graph())

	ds := res.Directives()
	require.Len(t, ds, 3)

	require.Equal(t, "2,5", ds[0].Graph())
	require.False(t, ds[0].GraphContent())
	require.Equal(t, KindStyle, ds[0].Kind())

	require.Equal(t, "db,cache", ds[1].Graph())
	require.True(t, ds[1].GraphContent())
	require.Equal(t, KindAlgorithm, ds[1].Kind())
	require.Equal(t, "circular", ds[1].Algorithm().Name())

	require.Equal(t, "others", ds[2].Graph())
	require.False(t, ds[2].GraphContent())
	require.Equal(t, KindCriteria, ds[2].Kind())
}

func TestInterpretSubgraphCount(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var b strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "layout subgraph {%d} style tree\n", i)
		}
		res := interpretOK(t, b.String())
		ds := res.Subgraphs()
		require.Len(t, ds, n)
		for i, d := range ds {
			require.Equal(t, fmt.Sprint(i), d.Graph())
		}
	}
}

func TestInterpretOthersOnly(t *testing.T) {
	res := interpretOK(t, "layout others style circular")
	ds := res.Subgraphs()
	require.Len(t, ds, 1)
	require.Equal(t, "others", ds[0].Graph())
	require.False(t, ds[0].GraphContent())
}

func TestInterpretAlgorithmProperties(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]any
		keys []string
	}{
		{
			name: "level based tree",
			src:  "layout graph algorithm level based tree horizontal = 5, vertical = 10",
			want: map[string]any{"name": "level", "xDist": 5, "yDist": 10},
			keys: []string{"name", "xDist", "yDist"},
		},
		{
			name: "hierarchical",
			src:  "layout graph algorithm hierarchical same layer spacing = 10, parent border = 10, move parent, hierarchy spacing = 3, fine tune",
			want: map[string]any{
				"name":                  "hierarchical",
				"intraCellSpacing":      10.0,
				"parentBorder":          10,
				"moveParent":            true,
				"interHierarchySpacing": 3.0,
				"fineTune":              true,
			},
			keys: []string{"name", "intraCellSpacing", "parentBorder", "moveParent", "interHierarchySpacing", "fineTune"},
		},
		{
			name: "kamada kawai",
			src:  "layout graph algorithm Kamada Kawai distance multiplier = 23.2, length factor = 4",
			want: map[string]any{"name": "Kamada", "distanceMultiplier": 23.2, "lengthFactor": 4.0},
			keys: []string{"name", "distanceMultiplier", "lengthFactor"},
		},
		{
			name: "fixed fields precede settings",
			src:  "layout graph algorithm fast organic max iterations = 100",
			want: map[string]any{"name": "organic", "type": "fast", "maxIterations": 100},
			keys: []string{"name", "type", "maxIterations"},
		},
		{
			name: "repeated setting keeps first position",
			src:  "layout graph algorithm tree horizontal = 5, vertical = 10, horizontal = 7",
			want: map[string]any{"name": "level", "xDist": 7, "yDist": 10},
			keys: []string{"name", "xDist", "yDist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := interpretOK(t, tt.src).Graph()
			require.Equal(t, KindAlgorithm, d.Kind())

			props := d.Algorithm()
			require.Equal(t, tt.keys, props.Keys())
			for k, want := range tt.want {
				got, ok := props.Get(k)
				require.True(t, ok, "missing %s", k)
				require.Equal(t, want, got, "property %s", k)
			}
		})
	}
}

func TestInterpretCriteria(t *testing.T) {
	d := interpretOK(t, "layout graph criteria maximize minimal angle threshold=5, uniform flow direction = left, distribute nodes evenly").Graph()
	require.Equal(t, KindCriteria, d.Kind())

	crit := d.Criteria()
	require.Len(t, crit, 3)
	require.Equal(t, []string{"name", "threshold"}, crit[0].Keys())
	require.Equal(t, "maximize_minimal_angle", crit[0].Name())
	threshold, _ := crit[0].Get("threshold")
	require.Equal(t, 5, threshold)

	direction, _ := crit[1].Get("direction")
	require.Equal(t, "left", direction)
	require.Equal(t, "distribute_nodes_evenly", crit[2].Name())
	require.Equal(t, 1, crit[2].Len())
}

func TestInterpretExpressionShape(t *testing.T) {
	d := interpretOK(t, "layout graph A and B or not (C and D)").Graph()
	require.Equal(t, KindExpression, d.Kind())

	expr := d.Expression()
	require.Len(t, expr.Terms, 2)

	first := expr.Terms[0].Factors
	require.Len(t, first, 2)
	require.Equal(t, "A", first[0].Criterion.Name())
	require.False(t, first[0].Negated)
	require.Equal(t, "B", first[1].Criterion.Name())
	require.False(t, first[1].Negated)

	second := expr.Terms[1].Factors
	require.Len(t, second, 1)
	require.True(t, second[0].Negated)
	require.Nil(t, second[0].Criterion)
	require.Len(t, second[0].Expression.Terms, 1)
	inner := second[0].Expression.Terms[0].Factors
	require.Len(t, inner, 2)
	require.Equal(t, "C", inner[0].Criterion.Name())
	require.Equal(t, "D", inner[1].Criterion.Name())

	require.Equal(t, "A AND B OR NOT (C AND D)", expr.String())
}

func TestInterpretNegatedConjunction(t *testing.T) {
	d := interpretOK(t, "layout graph not crossing_minimization and symmetry").Graph()
	factors := d.Expression().Terms[0].Factors

	require.Len(t, d.Expression().Terms, 1)
	require.Len(t, factors, 2)
	require.True(t, factors[0].Negated)
	require.Equal(t, "crossing_minimization", factors[0].Criterion.Name())
	require.False(t, factors[1].Negated)
	require.Equal(t, "symmetry", factors[1].Criterion.Name())
}

func TestInterpretMalformedInput(t *testing.T) {
	for _, src := range []string{
		"",
		"layout graph",
		"layout subgraph { 1, 2 style tree",
		"layout graph { }",
		"layout graph style tree extra",
		"layout graph algorithm quantum",
	} {
		t.Run(src, func(t *testing.T) {
			res := Interpret(src)
			require.Equal(t, FormError, res.Form())
			require.Error(t, res.Err())
			require.True(t, errors.Is(res.Err(), errors.ErrCodeSyntax))
			require.Nil(t, res.Directives())
			require.Nil(t, res.Subgraphs())

			d := res.Graph()
			require.NotNil(t, d)
			require.True(t, d.IsError())
			require.True(t, strings.HasPrefix(d.ErrorMessage(), "syntax error at line "))
			require.Equal(t, errors.UserMessage(res.Err()), d.ErrorMessage())
			require.Equal(t, KindNone, d.Kind())
			require.Empty(t, d.Graph())
			require.Empty(t, d.Style())
			require.Nil(t, d.Algorithm())
			require.Empty(t, d.Criteria())
			require.Nil(t, d.Expression())
		})
	}
}

type panicNode struct{}

func (panicNode) Pos() syntax.Position   { return syntax.Position{} }
func (panicNode) Fields() []syntax.Field { panic("fields unavailable") }

func requireErrorResult(t *testing.T, res *Result, code errors.Code) {
	t.Helper()
	require.Equal(t, FormError, res.Form())
	require.True(t, errors.Is(res.Err(), code), "err = %v, want code %s", res.Err(), code)
	require.Nil(t, res.Directives())
	require.Nil(t, res.Subgraphs())

	d := res.Graph()
	require.NotNil(t, d)
	require.True(t, d.IsError())
	require.Equal(t, KindNone, d.Kind())
	require.Equal(t, errors.UserMessage(res.Err()), d.ErrorMessage())
	require.Empty(t, d.Style())
	require.Nil(t, d.Algorithm())
	require.Empty(t, d.Criteria())
	require.Nil(t, d.Expression())
}

func TestInterpretModelStructuralErrors(t *testing.T) {
	style := &syntax.LayoutType{Style: "tree"}
	badFactor := &syntax.LayoutType{Expression: &syntax.Expression{Terms: []*syntax.Term{
		{Factors: []*syntax.Factor{{Not: true}}},
	}}}

	tests := []struct {
		name  string
		model *syntax.Model
		code  errors.Code
	}{
		{"nil model", nil, errors.ErrCodeMalformedNode},
		{"empty model", &syntax.Model{}, errors.ErrCodeMalformedNode},
		{"graph without layout", &syntax.Model{Graph: &syntax.LayoutGraph{}}, errors.ErrCodeMalformedNode},
		{"empty layout type", &syntax.Model{Graph: &syntax.LayoutGraph{Layout: &syntax.LayoutType{}}}, errors.ErrCodeUnclassifiable},
		{"ambiguous layout type", &syntax.Model{Graph: &syntax.LayoutGraph{Layout: &syntax.LayoutType{
			Style:    "tree",
			Criteria: []*syntax.Criterion{{Name: "planar"}},
		}}}, errors.ErrCodeUnclassifiable},
		{"factor without payload", &syntax.Model{Graph: &syntax.LayoutGraph{Layout: badFactor}}, errors.ErrCodeMalformedFactor},
		{"bad subgraph after good one", &syntax.Model{Subgraphs: []*syntax.LayoutSubgraph{
			{Layout: style},
			{Layout: &syntax.LayoutType{}},
		}}, errors.ErrCodeUnclassifiable},
		{"missing subgraph declaration", &syntax.Model{Subgraphs: []*syntax.LayoutSubgraph{{Layout: style}, nil}}, errors.ErrCodeMalformedNode},
	}
	in := NewInterpreter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireErrorResult(t, in.InterpretModel(tt.model), tt.code)
		})
	}
}

func TestInterpretModelRecoversFromPanics(t *testing.T) {
	model := &syntax.Model{Graph: &syntax.LayoutGraph{Layout: &syntax.LayoutType{
		Algorithm: &syntax.Algorithm{
			Name:  "box",
			Fixed: []syntax.Field{{Name: syntax.PropertiesField, Value: []syntax.Node{panicNode{}}}},
		},
	}}}

	res := NewInterpreter(nil).InterpretModel(model)
	requireErrorResult(t, res, errors.ErrCodeInternal)
	require.Contains(t, res.Graph().ErrorMessage(), "fields unavailable")
}

func TestInterpretModelMatchesInterpret(t *testing.T) {
	src := "layout subgraph {2, 5} style tree\nlayout subgraph {db, cache} algorithm circular\nlayout others style symmetric"
	model, err := syntax.Parse(src)
	require.NoError(t, err)

	want, err := MarshalResult(Interpret(src))
	require.NoError(t, err)
	got, err := MarshalResult(NewInterpreter(nil).InterpretModel(model))
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))
}

func TestInterpretIsIdempotent(t *testing.T) {
	for _, src := range []string{
		"layout graph algorithm hierarchical move parent, parent border = 4",
		"layout subgraph {1, a} criteria planarity, symmetry layout others not flow",
		"layout graph a or not (b and (c or not d))",
		"layout graph style",
	} {
		require.Equal(t, Interpret(src), Interpret(src), src)
	}
}

func TestInterpretConcurrent(t *testing.T) {
	in := NewInterpreter(nil)
	src := "layout subgraph {0, 1} style tree layout others criteria planarity"
	want := in.Interpret(src)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = in.Interpret(src)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

// nestedSource builds an expression whose parenthesized nesting is depth
// levels deep.
func nestedSource(depth int) string {
	expr := "c1 and not c2"
	for d := 2; d <= depth; d++ {
		expr = fmt.Sprintf("not (%s) or c%d", expr, d+1)
	}
	return "layout graph " + expr
}

func checkFactors(t *testing.T, e *Expression) int {
	t.Helper()
	require.NotEmpty(t, e.Terms)
	depth := 1
	for _, term := range e.Terms {
		require.NotEmpty(t, term.Factors)
		for _, f := range term.Factors {
			require.True(t, (f.Criterion == nil) != (f.Expression == nil), "factor must hold exactly one of criterion and expression")
			if f.Expression != nil {
				depth = max(depth, 1+checkFactors(t, f.Expression))
			}
		}
	}
	return depth
}

func TestFactorExclusivityAtDepth(t *testing.T) {
	for depth := 1; depth <= 5; depth++ {
		t.Run(fmt.Sprintf("depth %d", depth), func(t *testing.T) {
			expr := interpretOK(t, nestedSource(depth)).Graph().Expression()
			require.Equal(t, depth, checkFactors(t, expr))
		})
	}
}

func TestDirectiveSummary(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"layout graph style tree", "tree"},
		{"layout graph algorithm tree horizontal = 5", "level (xDist=5)"},
		{"layout graph algorithm hierarchical same layer spacing = 10", "hierarchical (intraCellSpacing=10.0)"},
		{"layout graph criteria planarity, min angle threshold = 5", "planarity, min_angle(threshold=5)"},
		{"layout graph not a or b", "NOT a OR b"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Interpret(tt.src).Graph().Summary(), tt.src)
	}
}
