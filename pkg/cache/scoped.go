package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or users
// can share one backend without colliding.
//
// Example usage:
//
//	// Server instances share a Redis cache per environment
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ConsensusKey generates a prefixed key for consensus caching.
func (k *ScopedKeyer) ConsensusKey(graphHash string, opts ConsensusKeyOpts) string {
	return k.prefix + k.inner.ConsensusKey(graphHash, opts)
}

// DocumentKey generates a prefixed key for document caching.
func (k *ScopedKeyer) DocumentKey(graphHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(graphHash, opts)
}
