package cache

// ScopedKeyer prefixes every key of another keyer, giving each scope its
// own namespace in a shared backend:
//
//	tenant := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:acme:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to DefaultKeyer when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// InterpretKey implements Keyer.
func (k *ScopedKeyer) InterpretKey(sourceHash string) string {
	return k.prefix + k.inner.InterpretKey(sourceHash)
}

// RenderKey implements Keyer.
func (k *ScopedKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(resultHash, opts)
}
