// Package pkg provides the core libraries for layoutdsl.
//
// # Overview
//
// layoutdsl interprets short English-like descriptions of how a graph
// should be laid out ("layout graph style tree", "lay out subgraph {a, b}
// not planarity and flow") and turns them into layout directives. The pkg
// directory is organized into four main areas:
//
//  1. [syntax] - Lexer, parser and concrete syntax tree
//  2. [layout] - Semantic model: directives, expressions, interpretation
//  3. [render] - Graphviz diagrams of interpreted directives
//  4. [pipeline] - Orchestration with caching (interpret → render)
//
// Supporting packages: [cache] (file, memory and Redis caches), [store]
// (interpretation history in memory or MongoDB), [server] (HTTP API),
// [errors] (coded errors), [observability] (hooks) and [buildinfo].
//
// # Architecture
//
// The typical data flow through layoutdsl:
//
//	layout source text
//	       ↓
//	  [syntax] package (tokens → concrete syntax tree)
//	       ↓
//	  [layout] package (syntax tree → directives)
//	       ↓
//	  [render] package (directives → DOT / SVG)
//
// # Quick Start
//
//	res := layout.Interpret("layout subgraph {1, 2} algorithm circular distance = 4")
//	if err := res.Err(); err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range res.Directives() {
//	    fmt.Println(d.Summary())
//	}
//
// [syntax]: github.com/matzehuels/layoutdsl/pkg/syntax
// [layout]: github.com/matzehuels/layoutdsl/pkg/layout
// [render]: github.com/matzehuels/layoutdsl/pkg/render
// [pipeline]: github.com/matzehuels/layoutdsl/pkg/pipeline
// [cache]: github.com/matzehuels/layoutdsl/pkg/cache
// [store]: github.com/matzehuels/layoutdsl/pkg/store
// [server]: github.com/matzehuels/layoutdsl/pkg/server
// [errors]: github.com/matzehuels/layoutdsl/pkg/errors
// [observability]: github.com/matzehuels/layoutdsl/pkg/observability
// [buildinfo]: github.com/matzehuels/layoutdsl/pkg/buildinfo
package pkg
