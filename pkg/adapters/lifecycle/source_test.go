package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/animio/pkg/core"
)

func TestSource_FiltersByType(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan core.Event, 3)
	events <- core.Event{Type: core.EventDelete, Path: "/walk.json"}
	events <- core.Event{Type: core.EventModify, Path: "/walk.json"}
	events <- core.Event{Type: core.EventCreate, Path: "/run.json"}
	close(events)

	src := NewSource(events, core.EventCreate, core.EventModify)
	require.NoError(t, src.Start(ctx))

	var got []core.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case e, ok := <-src.Events():
			if !ok {
				require.Len(t, got, 2)
				assert.Equal(t, core.EventModify, got[0].Type)
				assert.Equal(t, "/run.json", got[1].Path)
				return
			}
			got = append(got, e.(core.Event))
		case <-timeout:
			t.Fatal("timeout waiting for source to close")
		}
	}
}

func TestSource_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close after cancel")
	}
}
