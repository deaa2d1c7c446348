// Package layout turns parsed layout descriptions into layout directives.
//
// # Overview
//
// A layout description says how a graph, or parts of it, should be laid
// out: with a named style, a configured algorithm, a list of aesthetic
// criteria or a boolean expression over criteria. Package [syntax] parses
// the text; this package interprets the syntax tree into immutable
// [Directive] values that a layout engine can dispatch on without knowing
// anything about the grammar.
//
// # Basic Usage
//
//	in := layout.NewInterpreter(nil)
//	res := in.Interpret("layout graph algorithm level based tree horizontal = 5")
//	if err := res.Err(); err != nil {
//	    return err
//	}
//	d := res.Graph()
//	fmt.Println(d.Kind(), d.Algorithm().Name()) // algorithm level
//
// Interpret never panics and never returns a Go error: a description that
// does not parse yields a [Result] whose [Result.Form] is [FormError] and
// whose [Result.Graph] is a directive carrying only the error message.
//
// # Building Blocks
//
// The interpreter is composed of four functions that are exported for
// reuse and testing:
//
//   - [Extract] flattens any syntax node into an ordered [Properties] map
//   - [BuildExpression] converts a criteria expression tree
//   - [Classify] turns a layout type into a directive payload
//   - [ResolveSubgraph] computes a subgraph's [Target]
//
// # Targets
//
// A whole-graph description targets "graph". A subgraph declaration
// targets the comma separated list of its vertices, each written as its
// index when it has one and its content label otherwise. "layout others"
// targets "others", meaning every vertex no explicit subgraph covers.
//
// [Target.Content] is true when the vertex list addresses vertices by
// content. It starts true and the first indexed vertex turns it off for
// the whole declaration, even if later vertices are content labels.
//
// # Concurrency
//
// An [Interpreter] holds no per-call state and is safe for concurrent use.
// Results and everything reachable from them are never modified after
// Interpret returns.
package layout
