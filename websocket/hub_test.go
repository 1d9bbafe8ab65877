package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electionwatch/models"
)

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		NewClient(hub, conn)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Wait for the hub to pick up the registration before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if clients, _ := hub.GetStats(); clients == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastStations([]models.PollingStation{
		{ID: "s1", Name: "Central School", CurrentCrowdLevel: models.CrowdHigh},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg BroadcastMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "stations", msg.Type)
	assert.Equal(t, 1, msg.Count)
	if assert.Len(t, msg.Stations, 1) {
		assert.Equal(t, models.CrowdHigh, msg.Stations[0].CurrentCrowdLevel)
	}
}

func TestSendTargetsSingleClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	var mu sync.Mutex
	var clients []*Client

	upgrader := gorilla.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewClient(hub, conn)
		mu.Lock()
		clients = append(clients, client)
		mu.Unlock()
	}))
	defer server.Close()

	waitForClients := func(n int) {
		deadline := time.Now().Add(2 * time.Second)
		for {
			mu.Lock()
			registered := len(clients)
			mu.Unlock()
			if registered == n {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("expected %d registered clients", n)
			}
			time.Sleep(10 * time.Millisecond)
		}
	}

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	first, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer first.Close()
	waitForClients(1)

	second, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer second.Close()
	waitForClients(2)

	data, err := SnapshotMessage([]models.PollingStation{
		{ID: "s1", Name: "Central School", CurrentCrowdLevel: models.CrowdLow},
	})
	require.NoError(t, err)

	mu.Lock()
	target := clients[1]
	mu.Unlock()
	target.Send(data)

	// The second connection gets the snapshot; the first must stay quiet.
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := second.ReadMessage()
	require.NoError(t, err)

	var msg BroadcastMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "stations", msg.Type)
	assert.Equal(t, 1, msg.Count)

	first.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = first.ReadMessage()
	assert.Error(t, err, "snapshot leaked to a client it was not addressed to")
}

func TestBroadcastEmptySnapshotIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.BroadcastStations(nil)

	_, broadcasts := hub.GetStats()
	assert.Equal(t, 0, broadcasts)
}
