// Package syntax parses layout descriptions into a concrete syntax tree.
//
// A layout description either lays out the whole graph:
//
//	layout graph algorithm level based tree horizontal = 5, vertical = 10
//	lay out graph criteria maximize minimal angle threshold = 5, distribute nodes evenly
//	lay out graph not uniform flow and (planar or symmetric)
//
// or a sequence of subgraphs, where "others" addresses every vertex not
// covered by an explicit subgraph:
//
//	layout subgraph {0, 3, 4} style tree
//	layout subgraph {"db", "cache"} algorithm circular
//	lay out others style circular
//
// # Syntax Tree
//
// Every grammar production has its own node type. All nodes implement [Node],
// whose Fields method lists the production's declared fields in declaration
// order. Positions and other structural data are never part of Fields, so
// consumers can flatten nodes generically without knowing their concrete type.
//
// Algorithm nodes are built from the [Algorithms] catalogue: each algorithm
// declares the phrases that name it, the fixed fields it always carries and
// the property phrases it accepts together with their value kinds.
//
// # Errors
//
// Parse returns a *[Error] carrying the position of the offending token. The
// parser does not recover: the first error aborts the parse and no partial
// tree is returned.
//
// # Concurrency
//
// Parse keeps all state on the stack of the calling goroutine. The keyword,
// style and algorithm catalogues are read-only package variables, so
// concurrent calls are safe.
package syntax
