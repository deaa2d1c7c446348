package layout

import (
	"strconv"
	"strings"

	"github.com/matzehuels/layoutdsl/pkg/syntax"
)

// ResolveSubgraph computes the target of a subgraph declaration. A nil
// subgraph is the "others" declaration.
//
// Vertices are joined with ',' in source order, each as its index if it has
// one and as its content label otherwise. Content starts true and becomes
// false for good at the first indexed vertex.
func ResolveSubgraph(sg *syntax.Subgraph) Target {
	if sg == nil {
		return Target{Graph: TargetOthers}
	}

	ids := make([]string, 0, len(sg.Vertices))
	content := true
	for _, v := range sg.Vertices {
		if v == nil {
			continue
		}
		if v.HasIndex {
			ids = append(ids, strconv.Itoa(v.Index))
			content = false
		} else {
			ids = append(ids, v.Content)
		}
	}
	return Target{Graph: strings.Join(ids, ","), Content: content}
}
