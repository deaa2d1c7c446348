package cache

// Keyer builds cache keys.
type Keyer interface {
	// InterpretKey returns the key of the interpretation of a source with
	// the given content hash.
	InterpretKey(sourceHash string) string

	// RenderKey returns the key of a result rendered in format.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts holds the render settings that change the output.
type RenderKeyOpts struct {
	Format  string `json:"format"`
	RankDir string `json:"rank_dir,omitempty"`
}

// keyVersion is bumped whenever the cached representation changes.
const keyVersion = "v1"

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// InterpretKey implements Keyer.
func (DefaultKeyer) InterpretKey(sourceHash string) string {
	return "interpret:" + keyVersion + ":" + sourceHash
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return hashKey("render:"+keyVersion, resultHash, opts)
}
