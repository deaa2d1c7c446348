package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a layout description into its syntax tree.
// The returned error, if any, is a *Error.
func Parse(src string) (*Model, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseModel()
}

type parser struct {
	toks []Token
	i    int
}

func (p *parser) peek() Token {
	return p.toks[p.i]
}

// peekAt looks n tokens ahead. Past the end it keeps returning EOF.
func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() Token {
	t := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) expect(kind TokenKind, context string) (Token, error) {
	t := p.peek()
	if t.Kind != kind {
		return t, p.unexpected(t, "%s %s", kind, context)
	}
	return p.next(), nil
}

func (p *parser) unexpected(t Token, format string, args ...any) *Error {
	want := format
	if len(args) > 0 {
		want = fmt.Sprintf(format, args...)
	}
	return errorAt(t.Pos, "expected %s, found %s", want, t.describe())
}

// model := layout_graph | layout_subgraph+
func (p *parser) parseModel() (*Model, error) {
	start := p.peek()
	if err := p.parseLay(); err != nil {
		return nil, err
	}

	switch t := p.peek(); {
	case t.is(kwGraph):
		p.next()
		lt, err := p.parseLayoutType()
		if err != nil {
			return nil, err
		}
		p.skipSemicolon()
		if end := p.peek(); end.Kind != TokenEOF {
			if end.is(kwLayout) || end.is(kwLay) {
				return nil, errorAt(end.Pos, "a graph layout cannot be followed by further declarations")
			}
			return nil, p.unexpected(end, "end of input")
		}
		return &Model{pos: start.Pos, Graph: &LayoutGraph{pos: start.Pos, Layout: lt}}, nil

	case t.is(kwSubgraph), t.is(kwOthers):
		m := &Model{pos: start.Pos}
		declStart := start
		for {
			decl, err := p.parseLayoutSubgraph(declStart)
			if err != nil {
				return nil, err
			}
			m.Subgraphs = append(m.Subgraphs, decl)
			p.skipSemicolon()
			if p.peek().Kind == TokenEOF {
				return m, nil
			}
			declStart = p.peek()
			if err := p.parseLay(); err != nil {
				return nil, err
			}
			if p.peek().is(kwGraph) {
				return nil, errorAt(p.peek().Pos, "a graph layout cannot be combined with subgraph layouts")
			}
		}

	default:
		return nil, p.unexpected(t, "'graph', 'subgraph' or 'others'")
	}
}

// lay := 'layout' | 'lay' 'out'
func (p *parser) parseLay() error {
	t := p.peek()
	switch {
	case t.is(kwLayout):
		p.next()
		return nil
	case t.is(kwLay):
		p.next()
		if !p.peek().is(kwOut) {
			return p.unexpected(p.peek(), "'out'")
		}
		p.next()
		return nil
	default:
		return p.unexpected(t, "'layout' or 'lay out'")
	}
}

func (p *parser) skipSemicolon() {
	if p.peek().Kind == TokenSemicolon {
		p.next()
	}
}

// layout_subgraph := lay ('subgraph' subgraph | 'others') layout_type
func (p *parser) parseLayoutSubgraph(start Token) (*LayoutSubgraph, error) {
	decl := &LayoutSubgraph{pos: start.Pos}
	t := p.next()
	if t.is(kwSubgraph) {
		sg, err := p.parseSubgraph()
		if err != nil {
			return nil, err
		}
		decl.Subgraph = sg
	} else if !t.is(kwOthers) {
		return nil, p.unexpected(t, "'subgraph' or 'others'")
	}

	lt, err := p.parseLayoutType()
	if err != nil {
		return nil, err
	}
	decl.Layout = lt
	return decl, nil
}

// subgraph := '{' vertex (',' vertex)* '}'
func (p *parser) parseSubgraph() (*Subgraph, error) {
	open, err := p.expect(TokenLBrace, "to open the vertex list")
	if err != nil {
		return nil, err
	}
	sg := &Subgraph{pos: open.Pos}
	if p.peek().Kind == TokenRBrace {
		return nil, errorAt(p.peek().Pos, "subgraph must list at least one vertex")
	}
	for {
		v, err := p.parseVertex()
		if err != nil {
			return nil, err
		}
		sg.Vertices = append(sg.Vertices, v)

		switch t := p.peek(); t.Kind {
		case TokenComma:
			p.next()
		case TokenRBrace:
			p.next()
			return sg, nil
		default:
			return nil, p.unexpected(t, "',' or '}' to close the subgraph opened at %s", open.Pos)
		}
	}
}

// vertex := INT | IDENT | STRING
func (p *parser) parseVertex() (*Vertex, error) {
	t := p.next()
	switch t.Kind {
	case TokenInt:
		idx, err := strconv.Atoi(t.Text)
		if err != nil {
			return nil, errorAt(t.Pos, "invalid vertex index %s", t.Text)
		}
		if idx < 0 {
			return nil, errorAt(t.Pos, "vertex index must not be negative")
		}
		return &Vertex{pos: t.Pos, Index: idx, HasIndex: true}, nil
	case TokenIdent, TokenString:
		return &Vertex{pos: t.Pos, Content: t.Text}, nil
	default:
		return nil, p.unexpected(t, "vertex index or content")
	}
}

// layout_type := 'style' NAME | 'algorithm' algorithm
//
//	| 'criteria' criterion (',' criterion)* | expression
func (p *parser) parseLayoutType() (*LayoutType, error) {
	t := p.peek()
	lt := &LayoutType{pos: t.Pos}
	switch {
	case t.is(kwStyle):
		p.next()
		style, err := p.parseStyle()
		if err != nil {
			return nil, err
		}
		lt.Style = style
	case t.is(kwAlgorithm):
		p.next()
		alg, err := p.parseAlgorithm()
		if err != nil {
			return nil, err
		}
		lt.Algorithm = alg
	case t.is(kwCriteria):
		p.next()
		for {
			c, err := p.parseCriterion()
			if err != nil {
				return nil, err
			}
			lt.Criteria = append(lt.Criteria, c)
			if p.peek().Kind != TokenComma {
				break
			}
			p.next()
		}
	case startsFactor(t):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		lt.Expression = expr
	default:
		return nil, p.unexpected(t, "'style', 'algorithm', 'criteria' or a criteria expression")
	}
	return lt, nil
}

func startsFactor(t Token) bool {
	return t.is(kwNot) || t.Kind == TokenLParen || t.isWord()
}

func (p *parser) parseStyle() (string, error) {
	t := p.peek()
	if t.Kind != TokenIdent && t.Kind != TokenString {
		return "", p.unexpected(t, "style name")
	}
	style, ok := lookupStyle(t.Text)
	if !ok {
		return "", errorAt(t.Pos, "unknown style %q (expected one of: %s)", t.Text, strings.Join(Styles, ", "))
	}
	p.next()
	return style, nil
}

// algorithm := algorithm_phrase [property (',' property)*]
func (p *parser) parseAlgorithm() (*Algorithm, error) {
	start := p.peek()
	var spec *AlgorithmSpec
	best := 0
	for i := range Algorithms {
		for _, phrase := range Algorithms[i].Phrases {
			if n := p.matchPhrase(phrase); n > best {
				spec, best = &Algorithms[i], n
			}
		}
	}
	if spec == nil {
		return nil, p.unexpected(start, "algorithm name")
	}
	p.i += best

	alg := &Algorithm{pos: start.Pos, Name: spec.Name, Fixed: spec.Fixed}
	if !p.peek().isWord() {
		return alg, nil
	}
	for {
		prop, err := p.parseProperty(spec)
		if err != nil {
			return nil, err
		}
		alg.Properties = append(alg.Properties, prop)
		if p.peek().Kind != TokenComma {
			return alg, nil
		}
		p.next()
	}
}

// matchPhrase returns the number of tokens phrase covers at the current
// position, or 0 if it does not match.
func (p *parser) matchPhrase(phrase string) int {
	ws := words(phrase)
	for i, w := range ws {
		t := p.peekAt(i)
		if t.Kind != TokenIdent || !strings.EqualFold(t.Text, w) {
			return 0
		}
	}
	return len(ws)
}

// property := property_phrase ['=' value]
func (p *parser) parseProperty(alg *AlgorithmSpec) (*Property, error) {
	start := p.peek()
	var spec *PropertySpec
	best := 0
	for i := range alg.Properties {
		if n := p.matchPhrase(alg.Properties[i].Phrase); n > best {
			spec, best = &alg.Properties[i], n
		}
	}
	if spec == nil {
		if start.isWord() {
			return nil, errorAt(start.Pos, "unknown property %q for algorithm %s", start.Text, alg.Name)
		}
		return nil, p.unexpected(start, "property of algorithm %s", alg.Name)
	}
	p.i += best

	prop := &Property{pos: start.Pos, Name: spec.Field}
	if p.peek().Kind != TokenEquals {
		if spec.Kind != KindFlag {
			return nil, p.unexpected(p.peek(), "'=' after %q", spec.Phrase)
		}
		prop.Value = true
		return prop, nil
	}
	p.next()

	v, err := p.parseTypedValue(spec)
	if err != nil {
		return nil, err
	}
	prop.Value = v
	return prop, nil
}

func (p *parser) parseTypedValue(spec *PropertySpec) (any, error) {
	t := p.peek()
	switch spec.Kind {
	case KindInt:
		if t.Kind == TokenInt {
			p.next()
			return atoi(t)
		}
	case KindFloat:
		if t.Kind == TokenInt || t.Kind == TokenFloat {
			p.next()
			return atof(t)
		}
	case KindFlag:
		if t.is(kwTrue) || t.is(kwFalse) {
			p.next()
			return t.is(kwTrue), nil
		}
	case KindWord:
		if t.Kind == TokenString || t.isWord() {
			p.next()
			return t.Text, nil
		}
	}
	return nil, p.unexpected(t, "%s value for %q", spec.Kind, spec.Phrase)
}

// criterion := WORD+ (WORD '=' value)*
func (p *parser) parseCriterion() (*Criterion, error) {
	start := p.peek()
	var name []string
	for t := p.peek(); t.isWord() && p.peekAt(1).Kind != TokenEquals; t = p.peek() {
		name = append(name, t.Text)
		p.next()
	}
	if len(name) == 0 {
		return nil, p.unexpected(start, "criterion name")
	}

	c := &Criterion{pos: start.Pos, Name: strings.Join(name, "_")}
	for p.peek().Kind == TokenIdent && p.peekAt(1).Kind == TokenEquals {
		key := p.next()
		p.next() // '='
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		c.Properties = append(c.Properties, &Property{pos: key.Pos, Name: key.Text, Value: v})
	}
	return c, nil
}

// value := INT | FLOAT | 'true' | 'false' | IDENT | STRING
func (p *parser) parseValue() (any, error) {
	t := p.peek()
	switch {
	case t.Kind == TokenInt:
		p.next()
		return atoi(t)
	case t.Kind == TokenFloat:
		p.next()
		return atof(t)
	case t.is(kwTrue), t.is(kwFalse):
		p.next()
		return t.is(kwTrue), nil
	case t.Kind == TokenString, t.isWord():
		p.next()
		return t.Text, nil
	default:
		return nil, p.unexpected(t, "value")
	}
}

// expression := term ('or' term)*
func (p *parser) parseExpression() (*Expression, error) {
	expr := &Expression{pos: p.peek().Pos}
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr.Terms = append(expr.Terms, term)
		if !p.peek().is(kwOr) {
			return expr, nil
		}
		p.next()
	}
}

// term := factor ('and' factor)*
func (p *parser) parseTerm() (*Term, error) {
	term := &Term{pos: p.peek().Pos}
	for {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		term.Factors = append(term.Factors, f)
		if !p.peek().is(kwAnd) {
			return term, nil
		}
		p.next()
	}
}

// factor := ['not'] (criterion | '(' expression ')')
func (p *parser) parseFactor() (*Factor, error) {
	f := &Factor{pos: p.peek().Pos}
	if p.peek().is(kwNot) {
		p.next()
		f.Not = true
	}

	if open := p.peek(); open.Kind == TokenLParen {
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "to close the expression opened at "+open.Pos.String()); err != nil {
			return nil, err
		}
		f.Expression = expr
		return f, nil
	}

	c, err := p.parseCriterion()
	if err != nil {
		return nil, err
	}
	f.Criterion = c
	return f, nil
}

func atoi(t Token) (any, error) {
	n, err := strconv.Atoi(t.Text)
	if err != nil {
		return nil, errorAt(t.Pos, "integer %s out of range", t.Text)
	}
	return n, nil
}

func atof(t Token) (any, error) {
	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return nil, errorAt(t.Pos, "invalid number %s", t.Text)
	}
	return f, nil
}
