package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesInitialAndLaterSnapshots(t *testing.T) {
	ctx := context.Background()
	h := NewHub()
	value := "v1"
	h.Register(PathRegisterLink, func(context.Context) (any, error) { return value, nil })

	var got []any
	unsubscribe, err := h.Subscribe(ctx, PathRegisterLink, func(s any) { got = append(got, s) })
	require.NoError(t, err)
	assert.Equal(t, []any{"v1"}, got)

	value = "v2"
	require.NoError(t, h.Notify(ctx, PathRegisterLink))
	assert.Equal(t, []any{"v1", "v2"}, got)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, h.Subscribers(PathRegisterLink))

	value = "v3"
	require.NoError(t, h.Notify(ctx, PathRegisterLink))
	assert.Equal(t, []any{"v1", "v2"}, got)
}

func TestNotifySkipsLoadWithoutSubscribers(t *testing.T) {
	h := NewHub()
	loads := 0
	h.Register(PathContacts, func(context.Context) (any, error) { loads++; return nil, nil })
	require.NoError(t, h.Notify(context.Background(), PathContacts))
	assert.Zero(t, loads)
}

func TestUnknownPath(t *testing.T) {
	h := NewHub()
	_, err := h.Subscribe(context.Background(), "nope", func(any) {})
	require.Error(t, err)
	require.Error(t, h.Notify(context.Background(), "nope"))
}

func TestSubscribeLoadFailureLeavesNoSubscriber(t *testing.T) {
	h := NewHub()
	h.Register(PathUsers, func(context.Context) (any, error) { return nil, errors.New("offline") })
	_, err := h.Subscribe(context.Background(), PathUsers, func(any) {})
	require.Error(t, err)
	assert.Equal(t, 0, h.Subscribers(PathUsers))
	assert.Equal(t, []string{PathUsers}, h.Paths())
}

func TestNotifyDuringInitialLoadDeliversNewestLast(t *testing.T) {
	ctx := context.Background()
	h := NewHub()

	var mu sync.Mutex
	state := "v0"
	started := make(chan struct{})
	release := make(chan struct{})
	first := true
	h.Register(PathAnnouncements, func(context.Context) (any, error) {
		mu.Lock()
		v, block := state, first
		first = false
		mu.Unlock()
		if block {
			close(started)
			<-release
		}
		return v, nil
	})

	var gotMu sync.Mutex
	var got []any
	subscribed := make(chan error, 1)
	go func() {
		_, err := h.Subscribe(ctx, PathAnnouncements, func(s any) {
			gotMu.Lock()
			got = append(got, s)
			gotMu.Unlock()
		})
		subscribed <- err
	}()
	<-started

	mu.Lock()
	state = "v1"
	mu.Unlock()
	notified := make(chan error, 1)
	go func() { notified <- h.Notify(ctx, PathAnnouncements) }()

	// give Notify a chance to run while the initial load is still blocked
	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-subscribed)
	require.NoError(t, <-notified)

	gotMu.Lock()
	defer gotMu.Unlock()
	require.NotEmpty(t, got)
	assert.Equal(t, "v1", got[len(got)-1])
	assert.Equal(t, []any{"v0", "v1"}, got)
}
