package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failing  bool
	closed   bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func TestHubDeliversOnlyToOwner(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	a, b := &fakeConn{}, &fakeConn{}
	h.Join(Client{Conn: a, OwnerID: alice})
	h.Join(Client{Conn: b, OwnerID: bob})

	h.Publish(alice, Event{Action: "updated", Entity: "ingredient", EntityID: "gula"})

	require.Eventually(t, func() bool { return a.received() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, b.received())

	var ev Event
	a.mu.Lock()
	require.NoError(t, json.Unmarshal(a.messages[0], &ev))
	a.mu.Unlock()
	assert.Equal(t, TypeCostUpdate, ev.Type)
	assert.Equal(t, "ingredient", ev.Entity)
}

func TestHubDropsFailingClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	owner := uuid.New()
	broken := &fakeConn{failing: true}
	h.Join(Client{Conn: broken, OwnerID: owner})
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	h.Publish(owner, Event{Action: "deleted", Entity: "product"})
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	broken.mu.Lock()
	assert.True(t, broken.closed)
	broken.mu.Unlock()
}

func TestHubStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	conn := &fakeConn{}
	h.Join(Client{Conn: conn, OwnerID: uuid.New()})
	cancel()
	<-stopped

	conn.mu.Lock()
	assert.True(t, conn.closed)
	conn.mu.Unlock()

	// Late callers must not block.
	h.Leave(conn)
	h.Publish(uuid.New(), Event{Entity: "product"})
	late := &fakeConn{}
	h.Join(Client{Conn: late})
	assert.True(t, late.closed)
}
