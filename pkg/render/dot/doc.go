// Package dot draws interpretation results as Graphviz diagrams.
//
// # Usage
//
//	res := layout.Interpret(src)
//	src := dot.ToDOT(res, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Every directive is drawn as a dashed cluster named after its target
// ("graph", "others", or the vertex list). Inside, a criteria expression
// appears as an operator tree:
//
//	lay out graph not flow and (planarity or symmetry)
//
//	        AND
//	       /   \
//	    NOT     OR
//	     |     /  \
//	   flow  planarity  symmetry
//
// Error results render as a single note holding the error message.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process, so no system installation is needed.
package dot
