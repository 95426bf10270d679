package directory

import (
	"sync"
	"time"
)

type NotificationKind string

const (
	NoticeSuccess NotificationKind = "success"
	NoticeError   NotificationKind = "error"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Notifier holds the single transient notice shown after a mutation. Each
// notice auto-clears after a fixed interval; publishing a newer notice
// supersedes the pending clear of the older one.
type Notifier struct {
	ttl   time.Duration
	after func(time.Duration, func()) *time.Timer

	mu      sync.Mutex
	current *Notification
	gen     uint64
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}

	return &Notifier{ttl: ttl, after: time.AfterFunc}
}

func (n *Notifier) Publish(kind NotificationKind, message string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.current = &Notification{Kind: kind, Message: message}
	n.mu.Unlock()

	n.after(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// Only the notice that armed this timer may clear the slot.
		if n.gen == gen {
			n.current = nil
		}
	})
}

func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Notification{}, false
	}

	return *n.current, true
}
