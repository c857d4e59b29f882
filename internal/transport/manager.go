package transport

import (
	"context"
	"log"
	"sync"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/matchmaking"
	"github.com/ndrandal/tradinggame/internal/metrics"
	"github.com/ndrandal/tradinggame/internal/notification"
	"github.com/ndrandal/tradinggame/internal/ports"
)

// GameSnapshotSource is the narrow read capability the manager needs
// to send a reconnecting player a snapshot of the game they rejoin,
// the transport-level counterpart to the teacher's
// sendStockDirectory-on-subscribe behavior.
type GameSnapshotSource interface {
	LoadGame(ctx context.Context, id ids.GameId) (*game.State, bool, error)
}

// Manager handles player connection registration and notification
// fan-out. It does not implement the out-port interfaces itself — see
// GameNotifier, LobbyNotifier, and QueueNotifier below — since
// GameEventNotifier and LobbyEventNotifier both name their per-player
// method NotifyPlayer with different payload types, which one type
// cannot satisfy simultaneously.
type Manager struct {
	mu      sync.RWMutex
	clients map[ids.PlayerId]*Client

	snapshots GameSnapshotSource
}

func NewManager(snapshots GameSnapshotSource) *Manager {
	return &Manager{
		clients:   make(map[ids.PlayerId]*Client),
		snapshots: snapshots,
	}
}

// Register adds a new client for pid, replacing (and closing) any
// prior connection for the same player.
func (m *Manager) Register(pid ids.PlayerId, c *Client) {
	m.mu.Lock()
	old, had := m.clients[pid]
	m.clients[pid] = c
	m.mu.Unlock()

	if had {
		old.Close()
	} else {
		metrics.IncConnection()
	}
	log.Printf("player %s connected", pid)
}

func (m *Manager) Unregister(pid ids.PlayerId, c *Client) {
	m.mu.Lock()
	current, ok := m.clients[pid]
	removed := ok && current == c
	if removed {
		delete(m.clients, pid)
	}
	m.mu.Unlock()
	c.Close()
	if removed {
		metrics.DecConnection()
	}
	log.Printf("player %s disconnected", pid)
}

func (m *Manager) clientFor(pid ids.PlayerId) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[pid]
	return c, ok
}

// ReconnectSnapshot sends a player rejoining gameID a full read of
// current game state framed as a synthetic "game_snapshot"
// notification, so a reconnecting client does not have to wait for
// the next Tick to learn phase, prices, and account balances.
func (m *Manager) ReconnectSnapshot(ctx context.Context, pid ids.PlayerId, gameID ids.GameId) {
	if m.snapshots == nil {
		return
	}
	st, ok, err := m.snapshots.LoadGame(ctx, gameID)
	if err != nil || !ok {
		return
	}
	data, err := notification.EncodeGameSnapshot(gameID, pid, st)
	if err != nil {
		log.Printf("player %s: failed to encode reconnect snapshot: %v", pid, err)
		return
	}
	if c, ok := m.clientFor(pid); ok {
		c.Send(data)
	}
}

func (m *Manager) notifyGamePlayer(ctx context.Context, pid ids.PlayerId, n ports.GameNotification) {
	data, err := notification.EncodeGameEvent(n.Event)
	if err != nil {
		log.Printf("player %s: failed to encode game event: %v", pid, err)
		return
	}
	if c, ok := m.clientFor(pid); ok {
		c.Send(data)
	}
}

func (m *Manager) notifyLobbyPlayer(ctx context.Context, pid ids.PlayerId, n ports.LobbyNotification) {
	data, err := notification.EncodeLobbyEvent(n.Event)
	if err != nil {
		log.Printf("player %s: failed to encode lobby event: %v", pid, err)
		return
	}
	if c, ok := m.clientFor(pid); ok {
		c.Send(data)
	}
}

func (m *Manager) broadcastLobby(ctx context.Context, pids []ids.PlayerId, n ports.LobbyNotification) {
	data, err := notification.EncodeLobbyEvent(n.Event)
	if err != nil {
		log.Printf("broadcast: failed to encode lobby event: %v", err)
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pid := range pids {
		if c, ok := m.clients[pid]; ok {
			c.Send(data)
		}
	}
}

func (m *Manager) notifyOutcome(ctx context.Context, pid ids.PlayerId, outcome matchmaking.Outcome) {
	data, err := notification.EncodeMatchmakingOutcome(outcome)
	if err != nil {
		log.Printf("player %s: failed to encode matchmaking outcome: %v", pid, err)
		return
	}
	if c, ok := m.clientFor(pid); ok {
		c.Send(data)
	}
}

// ConnectionCount reports the number of live player connections, used
// by the /health endpoint.
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// GameNotifier, LobbyNotifier, and QueueNotifier adapt Manager to each
// out-port individually: Go cannot let one type implement both
// GameEventNotifier and LobbyEventNotifier directly since both ports
// name their per-player method NotifyPlayer with different payload
// types, so each view forwards to its own unexported method instead.
func (m *Manager) GameNotifier() ports.GameEventNotifier   { return gameNotifierView{m} }
func (m *Manager) LobbyNotifier() ports.LobbyEventNotifier { return lobbyNotifierView{m} }
func (m *Manager) QueueNotifier() ports.QueueNotifier      { return queueNotifierView{m} }

type gameNotifierView struct{ m *Manager }

func (v gameNotifierView) NotifyPlayer(ctx context.Context, pid ids.PlayerId, n ports.GameNotification) {
	v.m.notifyGamePlayer(ctx, pid, n)
}

type lobbyNotifierView struct{ m *Manager }

func (v lobbyNotifierView) NotifyPlayer(ctx context.Context, pid ids.PlayerId, n ports.LobbyNotification) {
	v.m.notifyLobbyPlayer(ctx, pid, n)
}

func (v lobbyNotifierView) Broadcast(ctx context.Context, pids []ids.PlayerId, n ports.LobbyNotification) {
	v.m.broadcastLobby(ctx, pids, n)
}

type queueNotifierView struct{ m *Manager }

func (v queueNotifierView) NotifyOutcome(ctx context.Context, pid ids.PlayerId, outcome matchmaking.Outcome) {
	v.m.notifyOutcome(ctx, pid, outcome)
}
