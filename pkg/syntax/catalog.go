package syntax

import "strings"

// ValueKind is the type a property phrase expects on the right of '='.
type ValueKind int

const (
	KindInt   ValueKind = iota // integer literal
	KindFloat                  // integer or float literal, stored as float64
	KindFlag                   // bare phrase means true; "= true|false" allowed
	KindWord                   // identifier or string
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindFlag:
		return "true or false"
	case KindWord:
		return "word"
	default:
		return "unknown"
	}
}

// PropertySpec declares one property phrase of an algorithm.
type PropertySpec struct {
	Phrase string // space separated words, matched case-insensitively
	Field  string
	Kind   ValueKind
}

// AlgorithmSpec declares one algorithm production.
type AlgorithmSpec struct {
	Phrases    []string // alternative spellings of the algorithm name
	Name       string
	Fixed      []Field
	Properties []PropertySpec
}

// Styles lists the accepted style names.
var Styles = []string{"automatic", "circular", "tree", "hierarchical", "symmetric", "general"}

var orientation = PropertySpec{Phrase: "orientation", Field: "orientation", Kind: KindWord}

var maxIterations = PropertySpec{Phrase: "max iterations", Field: "maxIterations", Kind: KindInt}

// Algorithms is the algorithm catalogue. Names follow the identifiers the
// layout engine dispatches on.
var Algorithms = []AlgorithmSpec{
	{
		Phrases: []string{"level based tree", "tree"},
		Name:    "level",
		Properties: []PropertySpec{
			{Phrase: "horizontal", Field: "xDist", Kind: KindInt},
			{Phrase: "vertical", Field: "yDist", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"radial tree", "radial"},
		Name:    "radial",
		Properties: []PropertySpec{
			{Phrase: "horizontal", Field: "xDist", Kind: KindInt},
			{Phrase: "vertical", Field: "yDist", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"compact tree"},
		Name:    "compact",
		Properties: []PropertySpec{
			{Phrase: "horizontal", Field: "horizontal", Kind: KindFlag},
			{Phrase: "invert", Field: "invert", Kind: KindFlag},
			{Phrase: "resize parents", Field: "resizeParents", Kind: KindFlag},
			{Phrase: "level distance", Field: "levelDistance", Kind: KindInt},
			{Phrase: "node distance", Field: "nodeDistance", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"node link tree"},
		Name:    "node",
		Properties: []PropertySpec{
			orientation,
			{Phrase: "spacing siblings", Field: "spacingSiblings", Kind: KindFloat},
			{Phrase: "spacing subtrees", Field: "spacingSubtrees", Kind: KindFloat},
			{Phrase: "spacing levels", Field: "spacingLevels", Kind: KindFloat},
			{Phrase: "offset root node", Field: "offsetRootNode", Kind: KindFloat},
		},
	},
	{
		Phrases: []string{"balloon"},
		Name:    "balloon",
		Properties: []PropertySpec{
			{Phrase: "min radius", Field: "minRadius", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"hierarchical"},
		Name:    "hierarchical",
		Properties: []PropertySpec{
			orientation,
			{Phrase: "resize parent", Field: "resizeParent", Kind: KindFlag},
			{Phrase: "move parent", Field: "moveParent", Kind: KindFlag},
			{Phrase: "parent border", Field: "parentBorder", Kind: KindInt},
			{Phrase: "same layer spacing", Field: "intraCellSpacing", Kind: KindFloat},
			{Phrase: "layer spacing", Field: "interRankSpacing", Kind: KindFloat},
			{Phrase: "hierarchy spacing", Field: "interHierarchySpacing", Kind: KindFloat},
			{Phrase: "parallel edge spacing", Field: "parallelEdgesSpacing", Kind: KindFloat},
			{Phrase: "fine tune", Field: "fineTune", Kind: KindFlag},
		},
	},
	{
		Phrases: []string{"circular", "circle"},
		Name:    "circular",
		Properties: []PropertySpec{
			{Phrase: "optimize crossings", Field: "optimize", Kind: KindFlag},
			{Phrase: "distance", Field: "dist", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"Kamada Kawai", "kamada-kawai"},
		Name:    "Kamada",
		Properties: []PropertySpec{
			{Phrase: "distance multiplier", Field: "distanceMultiplier", Kind: KindFloat},
			{Phrase: "length factor", Field: "lengthFactor", Kind: KindFloat},
			maxIterations,
		},
	},
	{
		Phrases: []string{"Fruchterman Reingold", "fruchterman-reingold"},
		Name:    "Fruchterman",
		Properties: []PropertySpec{
			{Phrase: "attraction multiplier", Field: "attractionMultiplier", Kind: KindFloat},
			{Phrase: "repulsion multiplier", Field: "repulsionMultiplier", Kind: KindFloat},
			maxIterations,
		},
	},
	{
		Phrases: []string{"spring"},
		Name:    "spring",
		Properties: []PropertySpec{
			{Phrase: "stretch", Field: "stretch", Kind: KindFloat},
			{Phrase: "repulsion range", Field: "repulsionRange", Kind: KindInt},
			{Phrase: "force multiplier", Field: "forceMultiplier", Kind: KindFloat},
		},
	},
	{
		Phrases: []string{"organic"},
		Name:    "organic",
		Properties: []PropertySpec{
			{Phrase: "fine tune", Field: "fineTune", Kind: KindFlag},
			{Phrase: "fine tuning radius", Field: "fineTuningRadius", Kind: KindFloat},
			{Phrase: "optimize edge crossings", Field: "optimizeEdgeCrossings", Kind: KindFlag},
			{Phrase: "edge crossing factor", Field: "edgeCrossingFactor", Kind: KindFloat},
			{Phrase: "optimize edge distance", Field: "optimizeEdgeDistance", Kind: KindFlag},
			{Phrase: "edge distance factor", Field: "edgeDistanceFactor", Kind: KindFloat},
			{Phrase: "optimize node distribution", Field: "optimizeNodeDistribution", Kind: KindFlag},
			{Phrase: "node distribution factor", Field: "nodeDistributionFactor", Kind: KindFloat},
			{Phrase: "optimize border line", Field: "optimizeBorderLine", Kind: KindFlag},
			{Phrase: "border line factor", Field: "borderLineFactor", Kind: KindFloat},
			{Phrase: "average node area", Field: "averageNodeArea", Kind: KindFloat},
			{Phrase: "average scale factor", Field: "averageScaleFactor", Kind: KindFloat},
			maxIterations,
		},
	},
	{
		Phrases: []string{"fast organic"},
		Name:    "organic",
		Fixed:   []Field{{Name: "type", Value: "fast"}},
		Properties: []PropertySpec{
			{Phrase: "force constant", Field: "forceConstant", Kind: KindFloat},
			{Phrase: "minimal distance limit", Field: "minimalDistanceLimit", Kind: KindFloat},
			{Phrase: "initial temperature", Field: "initialTemperature", Kind: KindFloat},
			maxIterations,
		},
	},
	{
		Phrases: []string{"box"},
		Name:    "box",
		Properties: []PropertySpec{
			{Phrase: "columns", Field: "numOfColumns", Kind: KindInt},
		},
	},
	{
		Phrases: []string{"concentric", "symmetric"},
		Name:    "concentric",
	},
}

// words splits a catalogue phrase into lower-case words.
func words(phrase string) []string {
	return strings.Fields(strings.ToLower(phrase))
}

// lookupStyle returns the canonical spelling of a style name.
func lookupStyle(name string) (string, bool) {
	for _, s := range Styles {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}
