package world

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubLookups(t *testing.T) {
	h := NewHub(testDeps())

	ch1 := h.Create(1, 1, 0)
	ch2 := h.Create(1, 2, 0)
	dungeon := h.Create(100, 0, -42)

	assert.Same(t, ch1, h.Get(ch1.ID()))
	assert.Same(t, ch1, h.ByChannel(1, 1))
	assert.Same(t, ch2, h.ByChannel(1, 2))
	assert.Nil(t, h.ByChannel(1, 3))
	assert.Same(t, dungeon, h.ByOwner(100, -42))
	assert.Nil(t, h.ByOwner(100, -7))
	assert.Nil(t, h.ByChannel(100, 0), "owned instances are not channel-addressable")
	assert.Len(t, h.Instances(), 3)

	h.Remove(ch2.ID())
	assert.Nil(t, h.Get(ch2.ID()))
	assert.Len(t, h.Instances(), 2)
}

func TestHubSweepClosable(t *testing.T) {
	h := NewHub(testDeps())
	keep := h.Create(1, 1, 0)
	gone := h.Create(100, 0, -42)
	gone.MarkClosable()

	swept := h.SweepClosable()
	require.Len(t, swept, 1)
	assert.Same(t, gone, swept[0])
	assert.Nil(t, h.Get(gone.ID()))
	assert.Same(t, keep, h.Get(keep.ID()))
	assert.Empty(t, h.SweepClosable())
}

func TestHubWaitByOwner(t *testing.T) {
	deps := testDeps()
	deps.Cfg.InstanceWait = time.Second
	deps.Cfg.InstancePollStep = 5 * time.Millisecond
	h := NewHub(deps)

	go func() {
		time.Sleep(20 * time.Millisecond)
		h.Create(100, 0, -42)
	}()

	in, err := h.WaitByOwner(context.Background(), 100, -42)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), in.OwnerID())
}

func TestHubWaitByOwnerTimeout(t *testing.T) {
	deps := testDeps()
	deps.Cfg.InstanceWait = 20 * time.Millisecond
	deps.Cfg.InstancePollStep = 5 * time.Millisecond
	h := NewHub(deps)

	_, err := h.WaitByOwner(context.Background(), 100, -42)
	assert.ErrorIs(t, err, ErrWaitTimeout)
}

func TestHubWaitByOwnerCancel(t *testing.T) {
	deps := testDeps()
	deps.Cfg.InstancePollStep = 5 * time.Millisecond
	h := NewHub(deps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.WaitByOwner(ctx, 100, -42)
	assert.ErrorIs(t, err, context.Canceled)
}
