// Package ids defines the opaque identifier types shared by every
// aggregate in the core: players, games, and lobbies. All three are
// UUIDs; equality is bitwise and ordering is unspecified, matching the
// identifier scheme the rest of the example pack uses for entities
// (google/uuid-backed IDs).
package ids

import "github.com/google/uuid"

// PlayerId identifies a single connected player across lobby, queue,
// and game lifetimes.
type PlayerId uuid.UUID

// GameId identifies one running (or ended) game.
type GameId uuid.UUID

// LobbyId identifies one ready-up lobby.
type LobbyId uuid.UUID

// NewPlayerId mints a fresh random player identifier.
func NewPlayerId() PlayerId { return PlayerId(uuid.New()) }

// NewGameId mints a fresh random game identifier.
func NewGameId() GameId { return GameId(uuid.New()) }

// NewLobbyId mints a fresh random lobby identifier.
func NewLobbyId() LobbyId { return LobbyId(uuid.New()) }

func (p PlayerId) String() string { return uuid.UUID(p).String() }
func (g GameId) String() string   { return uuid.UUID(g).String() }
func (l LobbyId) String() string  { return uuid.UUID(l).String() }

// ParsePlayerId parses a canonical 36-character UUID string.
func ParsePlayerId(s string) (PlayerId, error) {
	u, err := uuid.Parse(s)
	return PlayerId(u), err
}

// ParseGameId parses a canonical 36-character UUID string.
func ParseGameId(s string) (GameId, error) {
	u, err := uuid.Parse(s)
	return GameId(u), err
}

// ParseLobbyId parses a canonical 36-character UUID string.
func ParseLobbyId(s string) (LobbyId, error) {
	u, err := uuid.Parse(s)
	return LobbyId(u), err
}

func (p PlayerId) MarshalText() ([]byte, error) { return uuid.UUID(p).MarshalText() }
func (p *PlayerId) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*p = PlayerId(u)
	return nil
}

func (g GameId) MarshalText() ([]byte, error) { return uuid.UUID(g).MarshalText() }
func (g *GameId) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*g = GameId(u)
	return nil
}

func (l LobbyId) MarshalText() ([]byte, error) { return uuid.UUID(l).MarshalText() }
func (l *LobbyId) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*l = LobbyId(u)
	return nil
}
