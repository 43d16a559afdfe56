package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
//
// Trees fetched with an access token may include private repositories, so
// they are cached under a namespace derived from the token:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cache.TokenScope(token))
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

// TokenScope returns the namespace prefix for a credential. The token itself
// never appears in keys.
func TokenScope(token string) string {
	if token == "" {
		return ""
	}
	return "token:" + Hash([]byte(token))[:16] + ":"
}

// TreeKey generates a prefixed key for tree caching.
func (k *ScopedKeyer) TreeKey(source, target, ref string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(source, target, ref, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
