package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one Redis instance without colliding.
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "are-extras:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayerViewKey(baseURL, id string) string {
	return k.prefix + k.inner.LayerViewKey(baseURL, id)
}

func (k *ScopedKeyer) ArtifactKey(documentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(documentHash, opts)
}
