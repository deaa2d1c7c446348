package syntax

// Field is one declared field of a syntax node.
type Field struct {
	Name  string
	Value any
}

// Node is implemented by every production of the grammar.
//
// Fields lists the production's declared fields in declaration order.
// Structural data such as positions is never included.
type Node interface {
	Pos() Position
	Fields() []Field
}

// PropertiesField names the field under which Algorithm and Criterion nodes
// expose their parameter list.
const PropertiesField = "properties"

// Model is the root of a parsed description. Exactly one of Graph and
// Subgraphs is populated.
type Model struct {
	pos       Position
	Graph     *LayoutGraph
	Subgraphs []*LayoutSubgraph
}

func (m *Model) Pos() Position { return m.pos }

func (m *Model) Fields() []Field {
	if m.Graph != nil {
		return []Field{{Name: "layoutType", Value: m.Graph.Layout}}
	}
	return []Field{{Name: "layoutSubgraphs", Value: m.Subgraphs}}
}

// IsGraph reports whether the model lays out the whole graph.
func (m *Model) IsGraph() bool { return m.Graph != nil }

// LayoutGraph is a "layout graph ..." declaration.
type LayoutGraph struct {
	pos    Position
	Layout *LayoutType
}

func (g *LayoutGraph) Pos() Position { return g.pos }

func (g *LayoutGraph) Fields() []Field {
	return []Field{{Name: "layoutType", Value: g.Layout}}
}

// LayoutSubgraph is a "layout subgraph {...} ..." or "layout others ..."
// declaration. Subgraph is nil for the latter.
type LayoutSubgraph struct {
	pos      Position
	Subgraph *Subgraph
	Layout   *LayoutType
}

func (s *LayoutSubgraph) Pos() Position { return s.pos }

func (s *LayoutSubgraph) Fields() []Field {
	return []Field{
		{Name: "subgraph", Value: s.Subgraph},
		{Name: "layoutType", Value: s.Layout},
	}
}

// Subgraph lists the vertices a declaration applies to, in source order.
type Subgraph struct {
	pos      Position
	Vertices []*Vertex
}

func (s *Subgraph) Pos() Position { return s.pos }

func (s *Subgraph) Fields() []Field {
	return []Field{{Name: "vertices", Value: s.Vertices}}
}

// Vertex addresses a vertex either by index or by its content label.
type Vertex struct {
	pos      Position
	Index    int
	HasIndex bool
	Content  string
}

func (v *Vertex) Pos() Position { return v.pos }

func (v *Vertex) Fields() []Field {
	var index any
	if v.HasIndex {
		index = v.Index
	}
	return []Field{
		{Name: "index", Value: index},
		{Name: "content", Value: v.Content},
	}
}

// LayoutType holds the directive of a declaration. A well-formed node has
// exactly one of Style, Algorithm, Criteria and Expression populated.
type LayoutType struct {
	pos        Position
	Style      string
	Algorithm  *Algorithm
	Criteria   []*Criterion
	Expression *Expression
}

func (l *LayoutType) Pos() Position { return l.pos }

func (l *LayoutType) Fields() []Field {
	return []Field{
		{Name: "style", Value: l.Style},
		{Name: "algorithm", Value: l.Algorithm},
		{Name: "aestheticCriteria", Value: l.Criteria},
		{Name: "criteriaExpression", Value: l.Expression},
	}
}

// Algorithm is a layout algorithm with its configured properties. Fixed holds
// the fields the algorithm's catalogue entry always declares (for example the
// "type" of the fast organic variant).
type Algorithm struct {
	pos        Position
	Name       string
	Fixed      []Field
	Properties []*Property
}

func (a *Algorithm) Pos() Position { return a.pos }

func (a *Algorithm) Fields() []Field {
	fields := make([]Field, 0, len(a.Fixed)+2)
	fields = append(fields, Field{Name: "name", Value: a.Name})
	fields = append(fields, a.Fixed...)
	return append(fields, Field{Name: PropertiesField, Value: a.Properties})
}

// Property is a single named value. Its only field is the property itself.
type Property struct {
	pos   Position
	Name  string
	Value any
}

func (p *Property) Pos() Position { return p.pos }

func (p *Property) Fields() []Field {
	return []Field{{Name: p.Name, Value: p.Value}}
}

// Criterion is an aesthetic criterion such as "distribute nodes evenly" or
// "uniform flow direction = left". Name joins the criterion's words with '_'.
type Criterion struct {
	pos        Position
	Name       string
	Properties []*Property
}

func (c *Criterion) Pos() Position { return c.pos }

func (c *Criterion) Fields() []Field {
	return []Field{
		{Name: "name", Value: c.Name},
		{Name: PropertiesField, Value: c.Properties},
	}
}

// Expression is an OR of terms.
type Expression struct {
	pos   Position
	Terms []*Term
}

func (e *Expression) Pos() Position { return e.pos }

func (e *Expression) Fields() []Field {
	return []Field{{Name: "terms", Value: e.Terms}}
}

// Term is an AND of factors.
type Term struct {
	pos     Position
	Factors []*Factor
}

func (t *Term) Pos() Position { return t.pos }

func (t *Term) Fields() []Field {
	return []Field{{Name: "factors", Value: t.Factors}}
}

// Factor is an optionally negated criterion or parenthesized expression.
type Factor struct {
	pos        Position
	Not        bool
	Criterion  *Criterion
	Expression *Expression
}

func (f *Factor) Pos() Position { return f.pos }

func (f *Factor) Fields() []Field {
	return []Field{
		{Name: "not", Value: f.Not},
		{Name: "criterion", Value: f.Criterion},
		{Name: "expression", Value: f.Expression},
	}
}
