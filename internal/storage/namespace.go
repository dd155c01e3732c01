package storage

import "context"

// Namespaced prefixes every key so that many visitors can share one backend.
type Namespaced struct {
	inner  Store
	prefix string
}

func Namespace(inner Store, prefix string) *Namespaced {
	return &Namespaced{inner: inner, prefix: prefix}
}

// VisitorPrefix is the namespace of one visitor's keys.
func VisitorPrefix(visitorID string) string {
	return "visitor:" + visitorID + ":"
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return Update(ctx, n.inner, n.prefix+key, fn)
}
