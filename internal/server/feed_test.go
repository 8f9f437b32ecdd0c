package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/skirmish/internal/core/config"
	"github.com/zeusync/skirmish/internal/core/models"
	"github.com/zeusync/skirmish/internal/core/system"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func newScenario(t *testing.T) *system.Simulation {
	t.Helper()
	sc := config.DefaultScenario()
	sim, err := system.New(system.Options{Ledger: sc.Ledger, Grid: sc.Grid.Build(), Seed: 1})
	require.NoError(t, err)
	require.NoError(t, sim.Populate(sc))
	return sim
}

func TestFeedBroadcastsFrames(t *testing.T) {
	feed := NewFeed(nil)
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()
	defer feed.Close()

	sim := newScenario(t)
	require.NoError(t, feed.Broadcast(BuildFrame(sim)))

	a := dial(t, srv)
	b := dial(t, srv)

	first := readFrame(t, a)
	assert.Equal(t, uint64(0), first.Tick)
	assert.NotEmpty(t, first.Entities)
	readFrame(t, b)
	require.Eventually(t, func() bool { return feed.Clients() == 2 }, time.Second, 10*time.Millisecond)

	sim.Tick(0.05)
	require.NoError(t, feed.Broadcast(BuildFrame(sim)))

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		assert.Equal(t, uint64(1), f.Tick)
		assert.Equal(t, sim.Ledger.Minerals, f.Ledger.Minerals)
		require.NotEmpty(t, f.Production)
		assert.Equal(t, models.UnitWorker, f.Production[0].Queue[0])
	}
}

func TestFeedDropsDisconnectedSpectators(t *testing.T) {
	feed := NewFeed(nil)
	srv := httptest.NewServer(feed.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return feed.Clients() == 0 }, time.Second, 10*time.Millisecond)
	assert.NoError(t, feed.Broadcast(map[string]int{"tick": 1}))
}

func TestBuildFrame(t *testing.T) {
	sim := newScenario(t)
	frame := BuildFrame(sim)

	var nodes, buildings int
	for _, e := range frame.Entities {
		if e.Resource != nil {
			nodes++
			assert.Nil(t, e.Health)
		}
		if e.Kind == models.UnitCommandCenter {
			buildings++
			require.NotNil(t, e.Health)
			assert.Equal(t, system.BuildingHealth, e.Health.Max)
		}
	}
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 1, buildings)
	assert.Len(t, frame.Production, 2)
}

func TestBroadcastRejectsUnencodable(t *testing.T) {
	feed := NewFeed(nil)
	assert.Error(t, feed.Broadcast(func() {}))
}
