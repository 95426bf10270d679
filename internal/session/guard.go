package session

import (
	"context"
	"time"

	"go-staff-console/internal/model"
)

type Decision int

const (
	RedirectToLogin Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect_to_login"
}

// Guard decides, before a protected view renders, whether the stored session
// is still good. An expired tuple is cleared on the spot so it can never be
// resurrected from residual storage.
type Guard struct {
	store Store
	now   func() time.Time
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store, now: time.Now}
}

// Evaluate returns the routing decision and, on Allow, the session that
// justified it. It is the only reader that also clears.
func (g *Guard) Evaluate(ctx context.Context) (Decision, model.Session, error) {
	sess, ok, err := g.store.Load(ctx)
	if err != nil {
		return RedirectToLogin, model.Session{}, err
	}

	if !ok || !sess.Valid() {
		return RedirectToLogin, model.Session{}, nil
	}

	if sess.Expired(g.now()) {
		if err := g.store.Clear(ctx); err != nil {
			return RedirectToLogin, model.Session{}, err
		}
		return RedirectToLogin, model.Session{}, nil
	}

	return Allow, sess, nil
}
