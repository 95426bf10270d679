package session

import "context"

// TokenSource adapts a Store to the backend client's credential lookup. It
// hands out whatever token is stored; validity is the guard's job, and the
// backend rejects stale tokens on its own.
type TokenSource struct {
	store Store
}

func NewTokenSource(store Store) *TokenSource {
	return &TokenSource{store: store}
}

func (t *TokenSource) Token(ctx context.Context) (string, bool) {
	sess, ok, err := t.store.Load(ctx)
	if err != nil || !ok {
		return "", false
	}

	return sess.Token, true
}
