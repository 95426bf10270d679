package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualTimers collects AfterFunc callbacks so tests can fire them on demand.
type manualTimers struct {
	pending []func()
}

func (m *manualTimers) after(_ time.Duration, fn func()) *time.Timer {
	m.pending = append(m.pending, fn)
	return nil
}

func (m *manualTimers) fire(i int) {
	m.pending[i]()
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	t.Run("notice clears after its interval", func(t *testing.T) {
		timers := &manualTimers{}
		notifier := NewNotifier(3 * time.Second)
		notifier.after = timers.after

		notifier.Publish(NoticeSuccess, "User created successfully!")

		notice, ok := notifier.Current()
		require.True(t, ok)
		require.Equal(t, NoticeSuccess, notice.Kind)

		timers.fire(0)

		_, ok = notifier.Current()
		require.False(t, ok)
	})

	t.Run("newer notice survives the older notice's expiry", func(t *testing.T) {
		timers := &manualTimers{}
		notifier := NewNotifier(3 * time.Second)
		notifier.after = timers.after

		notifier.Publish(NoticeError, "Failed to update user. Try again.")
		notifier.Publish(NoticeSuccess, "User updated successfully!")

		// The first notice's timer fires, but the slot now belongs to the
		// second notice.
		timers.fire(0)

		notice, ok := notifier.Current()
		require.True(t, ok)
		require.Equal(t, "User updated successfully!", notice.Message)

		timers.fire(1)
		_, ok = notifier.Current()
		require.False(t, ok)
	})

	t.Run("real timer clears without manual help", func(t *testing.T) {
		notifier := NewNotifier(10 * time.Millisecond)
		notifier.Publish(NoticeSuccess, "User deleted successfully!")

		require.Eventually(t, func() bool {
			_, ok := notifier.Current()
			return !ok
		}, time.Second, 5*time.Millisecond)
	})
}
