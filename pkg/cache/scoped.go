package cache

// ScopedKeyer wraps a Keyer with a prefix so several environments or
// tenants can share one backend.
//
// Example usage:
//
//	// Keys of the staging preview server
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

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(format string, input []byte) string {
	return k.prefix + k.inner.RenderKey(format, input)
}

// DiagramKey generates a prefixed key for stored documents.
func (k *ScopedKeyer) DiagramKey(id, notation string) string {
	return k.prefix + k.inner.DiagramKey(id, notation)
}
