package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layoutdsl/pkg/layout"
)

// Options configures diagram generation.
type Options struct {
	// RankDir is the Graphviz rank direction, "TB" (default) or "LR".
	RankDir string
}

// Fill colors per node role.
const (
	fillDirective = "#e8f1fb"
	fillOperator  = "#fff4d6"
	fillCriterion = "white"
	fillError     = "#fde2e2"
)

// ToDOT converts an interpretation result into Graphviz DOT source.
//
// Each directive becomes a cluster labelled with its target. Style and
// algorithm directives are single nodes; criteria lists hang off an "all
// of" node; expressions become trees of OR, AND and NOT operator nodes with
// criterion leaves. Operators with a single operand are elided.
func ToDOT(res *layout.Result, opts Options) string {
	w := &writer{}
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	w.line("digraph layout {")
	w.line("  rankdir=%s;", rankdir)
	w.line("  bgcolor=\"transparent\";")
	w.line("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];")
	w.line("  edge [arrowsize=0.6];")
	w.line("")

	if res.Form() == layout.FormError {
		w.node(res.Graph().ErrorMessage(), "shape=note", "fillcolor=\""+fillError+"\"")
		w.line("}")
		return w.buf.String()
	}

	for i, d := range res.Directives() {
		w.line("  subgraph cluster_%d {", i)
		w.line("    label=%s;", quote(clusterLabel(d)))
		w.line("    style=\"rounded,dashed\";")
		w.directive(d)
		w.line("  }")
	}
	w.line("}")
	return w.buf.String()
}

func clusterLabel(d *layout.Directive) string {
	switch {
	case d.Graph() == layout.TargetGraph || d.Graph() == layout.TargetOthers:
		return d.Graph()
	case d.GraphContent():
		return "vertices " + d.Graph()
	default:
		return "indices " + d.Graph()
	}
}

type writer struct {
	buf  bytes.Buffer
	next int
}

func (w *writer) line(format string, args ...any) {
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// node emits a node and returns its ID.
func (w *writer) node(label string, attrs ...string) string {
	id := "n" + strconv.Itoa(w.next)
	w.next++
	all := append([]string{"label=" + quote(label)}, attrs...)
	w.line("    %s [%s];", id, strings.Join(all, ", "))
	return id
}

func (w *writer) edge(from, to string) {
	w.line("    %s -> %s;", from, to)
}

func (w *writer) directive(d *layout.Directive) {
	fill := "fillcolor=\"" + fillDirective + "\""
	switch d.Kind() {
	case layout.KindStyle:
		w.node("style\n"+d.Style(), fill)
	case layout.KindAlgorithm:
		w.node(algorithmLabel(d.Algorithm()), fill)
	case layout.KindCriteria:
		root := w.node("all of", fill, "shape=ellipse")
		for _, c := range d.Criteria() {
			w.edge(root, w.criterion(c))
		}
	case layout.KindExpression:
		w.expression(d.Expression())
	}
}

func algorithmLabel(p *layout.Properties) string {
	var b strings.Builder
	b.WriteString("algorithm " + p.Name())
	for k, v := range p.All() {
		if k == "name" {
			continue
		}
		fmt.Fprintf(&b, "\n%s = %s", k, layout.FormatValue(v))
	}
	return b.String()
}

func (w *writer) criterion(c *layout.Properties) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(c.Name(), "_", " "))
	for k, v := range c.All() {
		if k != "name" {
			fmt.Fprintf(&b, "\n%s = %s", k, layout.FormatValue(v))
		}
	}
	return w.node(b.String(), "fillcolor="+fillCriterion)
}

func (w *writer) operator(label string) string {
	return w.node(label, "shape=ellipse", "fillcolor=\""+fillOperator+"\"")
}

// expression emits e and returns the ID of its root node.
func (w *writer) expression(e *layout.Expression) string {
	if len(e.Terms) == 1 {
		return w.term(e.Terms[0])
	}
	root := w.operator("OR")
	for _, t := range e.Terms {
		w.edge(root, w.term(t))
	}
	return root
}

func (w *writer) term(t *layout.Term) string {
	if len(t.Factors) == 1 {
		return w.factor(t.Factors[0])
	}
	root := w.operator("AND")
	for _, f := range t.Factors {
		w.edge(root, w.factor(f))
	}
	return root
}

func (w *writer) factor(f *layout.Factor) string {
	var root string
	if f.Negated {
		root = w.operator("NOT")
	}
	var child string
	if f.Expression != nil {
		child = w.expression(f.Expression)
	} else {
		child = w.criterion(f.Criterion)
	}
	if root == "" {
		return child
	}
	w.edge(root, child)
	return root
}

// quote renders s as a DOT string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
