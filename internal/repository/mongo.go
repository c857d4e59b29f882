package repository

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
	"github.com/ndrandal/tradinggame/internal/market"
	"github.com/ndrandal/tradinggame/internal/matchmaking"
)

// Store wraps the MongoDB client and database, adapted from the
// teacher's persist.Store: connect, ping, resolve the database name
// from the URI path, and expose the pieces needed to build
// collection-scoped repositories on top.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB and returns a Store. If the URI's path
// does not name a database, "tradinggame" is used.
func NewStore(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := "tradinggame"
	if u, err := url.Parse(uri); err == nil {
		if name := strings.TrimPrefix(u.Path, "/"); name != "" {
			dbName = name
		}
	}

	log.Printf("connected to MongoDB (db=%s)", dbName)
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close(ctx context.Context) { s.client.Disconnect(ctx) }

// Migrate creates idempotent indexes for every collection this
// package writes to.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"games", mongo.IndexModel{Keys: bson.D{{Key: "_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{"lobbies", mongo.IndexModel{Keys: bson.D{{Key: "_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{"queues", mongo.IndexModel{Keys: bson.D{{Key: "_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for _, idx := range indexes {
		if _, err := s.db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	log.Println("MongoDB indexes ensured")
	return nil
}

// MongoRepository is the durable GameRepository/LobbyRepository. Each
// entity is stored as a single document replaced wholesale on every
// save; a single-document write is atomic in MongoDB, which is
// sufficient to satisfy the "no torn writes of phase vs
// ticks_remaining vs player maps" requirement without a multi-document
// transaction.
type MongoRepository struct {
	games   *mongo.Collection
	lobbies *mongo.Collection
	queues  *mongo.Collection
}

func NewMongoRepository(store *Store) *MongoRepository {
	return &MongoRepository{
		games:   store.db.Collection("games"),
		lobbies: store.db.Collection("lobbies"),
		queues:  store.db.Collection("queues"),
	}
}

type gameDocument struct {
	ID             string           `bson:"_id"`
	Phase          int              `bson:"phase"`
	Config         gameConfigDoc    `bson:"config"`
	TicksRemaining int32            `bson:"ticks_remaining"`
	Players        []playerDocument `bson:"players"`
	UpdatedAt      time.Time        `bson:"updated_at"`
}

type gameConfigDoc struct {
	TickIntervalMs      int64 `bson:"tick_interval_ms"`
	GameDurationMs      int64 `bson:"game_duration_ms"`
	MaxPriceDelta       int32 `bson:"max_price_delta"`
	StartingPrice       int32 `bson:"starting_price"`
	CountdownDurationMs int64 `bson:"countdown_duration_ms"`
	StartingBalance     int32 `bson:"starting_balance"`
}

type playerDocument struct {
	PlayerId string         `bson:"player_id"`
	Cash     int32          `bson:"cash"`
	Shares   []int32        `bson:"shares"`
	OpenBids []int32        `bson:"open_bids"`
	OpenAsks []int32        `bson:"open_asks"`
	Ticker   tickerDocument `bson:"ticker"`
}

type tickerDocument struct {
	BaseVolatility int32           `bson:"base_volatility"`
	BasePressure   int32           `bson:"base_pressure"`
	CurrentPrice   int32           `bson:"current_price"`
	Forces         []forceDocument `bson:"forces"`
}

type forceDocument struct {
	Pressure   float32 `bson:"pressure"`
	Volatility float32 `bson:"volatility"`
	DecayKind  string  `bson:"decay_kind"`
	Remaining  uint32  `bson:"remaining"`
	Initial    uint32  `bson:"initial"`
	HalfLife   uint32  `bson:"half_life"`
	Age        uint32  `bson:"age"`
}

func toGameDocument(id ids.GameId, st *game.State) gameDocument {
	doc := gameDocument{
		ID:    id.String(),
		Phase: int(st.Phase),
		Config: gameConfigDoc{
			TickIntervalMs:      st.Config.TickInterval.Milliseconds(),
			GameDurationMs:      st.Config.GameDuration.Milliseconds(),
			MaxPriceDelta:       st.Config.MaxPriceDelta,
			StartingPrice:       st.Config.StartingPrice,
			CountdownDurationMs: st.Config.CountdownDuration.Milliseconds(),
			StartingBalance:     st.Config.StartingBalance,
		},
		TicksRemaining: st.TicksRemaining,
		UpdatedAt:      time.Now(),
	}

	for pid, ps := range st.Players {
		pt := st.PlayerTickers[pid]
		forces := make([]forceDocument, len(pt.Ticker.Forces))
		for i, f := range pt.Ticker.Forces {
			snap := f.Decay.Snapshot()
			forces[i] = forceDocument{
				Pressure: f.Pressure, Volatility: f.Volatility,
				DecayKind: snap.Kind, Remaining: snap.Remaining,
				Initial: snap.Initial, HalfLife: snap.HalfLife, Age: snap.Age,
			}
		}
		doc.Players = append(doc.Players, playerDocument{
			PlayerId: pid.String(),
			Cash:     ps.Cash,
			Shares:   ps.Shares,
			OpenBids: ps.OpenBids,
			OpenAsks: ps.OpenAsks,
			Ticker: tickerDocument{
				BaseVolatility: pt.Ticker.BaseVolatility,
				BasePressure:   pt.Ticker.BasePressure,
				CurrentPrice:   pt.CurrentPrice,
				Forces:         forces,
			},
		})
	}
	return doc
}

func fromGameDocument(doc gameDocument) (*game.State, error) {
	cfg := game.Config{
		TickInterval:      time.Duration(doc.Config.TickIntervalMs) * time.Millisecond,
		GameDuration:      time.Duration(doc.Config.GameDurationMs) * time.Millisecond,
		MaxPriceDelta:     doc.Config.MaxPriceDelta,
		StartingPrice:     doc.Config.StartingPrice,
		CountdownDuration: time.Duration(doc.Config.CountdownDurationMs) * time.Millisecond,
		StartingBalance:   doc.Config.StartingBalance,
	}

	players := make([]ids.PlayerId, 0, len(doc.Players))
	for _, pd := range doc.Players {
		pid, err := ids.ParsePlayerId(pd.PlayerId)
		if err != nil {
			return nil, fmt.Errorf("parse player id %q: %w", pd.PlayerId, err)
		}
		players = append(players, pid)
	}

	st := game.New(cfg, players)
	st.Phase = game.Phase(doc.Phase)
	st.TicksRemaining = doc.TicksRemaining

	for i, pd := range doc.Players {
		pid := players[i]
		st.Players[pid] = game.PlayerState{
			Cash:     pd.Cash,
			Shares:   pd.Shares,
			OpenBids: pd.OpenBids,
			OpenAsks: pd.OpenAsks,
		}

		forces := make([]market.MarketForce, len(pd.Ticker.Forces))
		for j, fd := range pd.Ticker.Forces {
			forces[j] = market.MarketForce{
				Pressure:   fd.Pressure,
				Volatility: fd.Volatility,
				Decay: market.DecayFromSnapshot(market.DecaySnapshot{
					Kind: fd.DecayKind, Remaining: fd.Remaining,
					Initial: fd.Initial, HalfLife: fd.HalfLife, Age: fd.Age,
				}),
			}
		}
		pt := st.PlayerTickers[pid]
		pt.Ticker.BaseVolatility = pd.Ticker.BaseVolatility
		pt.Ticker.BasePressure = pd.Ticker.BasePressure
		pt.Ticker.Forces = forces
		pt.CurrentPrice = pd.Ticker.CurrentPrice
	}

	return st, nil
}

func (r *MongoRepository) LoadGame(ctx context.Context, id ids.GameId) (*game.State, bool, error) {
	var doc gameDocument
	err := r.games.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load game %s: %w", id, err)
	}
	st, err := fromGameDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (r *MongoRepository) SaveGame(ctx context.Context, id ids.GameId, st *game.State) error {
	doc := toGameDocument(id, st)
	_, err := r.games.ReplaceOne(ctx, bson.M{"_id": id.String()}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}
	return nil
}

func (r *MongoRepository) DeleteGame(ctx context.Context, id ids.GameId) error {
	_, err := r.games.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

func (r *MongoRepository) ListGames(ctx context.Context) ([]ids.GameId, error) {
	cur, err := r.games.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer cur.Close(ctx)

	var out []ids.GameId
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode game id: %w", err)
		}
		id, err := ids.ParseGameId(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("parse game id %q: %w", doc.ID, err)
		}
		out = append(out, id)
	}
	return out, cur.Err()
}

type lobbyDocument struct {
	ID              string    `bson:"_id"`
	ExpectedPlayers []string  `bson:"expected_players"`
	ArrivedPlayers  []string  `bson:"arrived_players"`
	ReadyPlayers    []string  `bson:"ready_players"`
	Phase           int       `bson:"phase"`
	Remaining       uint32    `bson:"remaining"`
	GameId          string    `bson:"game_id"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func toLobbyDocument(id ids.LobbyId, st *lobby.State) lobbyDocument {
	doc := lobbyDocument{
		ID:        id.String(),
		Phase:     int(st.Phase),
		Remaining: st.Remaining,
		GameId:    st.GameId.String(),
		UpdatedAt: time.Now(),
	}
	for _, pid := range st.ExpectedPlayers {
		doc.ExpectedPlayers = append(doc.ExpectedPlayers, pid.String())
	}
	for pid := range st.ArrivedPlayers {
		doc.ArrivedPlayers = append(doc.ArrivedPlayers, pid.String())
	}
	for pid := range st.ReadyPlayers {
		doc.ReadyPlayers = append(doc.ReadyPlayers, pid.String())
	}
	return doc
}

func fromLobbyDocument(doc lobbyDocument) (*lobby.State, error) {
	expected := make([]ids.PlayerId, 0, len(doc.ExpectedPlayers))
	for _, s := range doc.ExpectedPlayers {
		pid, err := ids.ParsePlayerId(s)
		if err != nil {
			return nil, fmt.Errorf("parse expected player %q: %w", s, err)
		}
		expected = append(expected, pid)
	}

	id, err := ids.ParseLobbyId(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse lobby id %q: %w", doc.ID, err)
	}

	st := lobby.New(id, expected)
	st.Phase = lobby.Phase(doc.Phase)
	st.Remaining = doc.Remaining
	if doc.GameId != "" {
		gid, err := ids.ParseGameId(doc.GameId)
		if err == nil {
			st.GameId = gid
		}
	}
	for _, s := range doc.ArrivedPlayers {
		if pid, err := ids.ParsePlayerId(s); err == nil {
			st.ArrivedPlayers[pid] = struct{}{}
		}
	}
	for _, s := range doc.ReadyPlayers {
		if pid, err := ids.ParsePlayerId(s); err == nil {
			st.ReadyPlayers[pid] = struct{}{}
		}
	}
	return st, nil
}

func (r *MongoRepository) LoadLobby(ctx context.Context, id ids.LobbyId) (*lobby.State, bool, error) {
	var doc lobbyDocument
	err := r.lobbies.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load lobby %s: %w", id, err)
	}
	st, err := fromLobbyDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (r *MongoRepository) SaveLobby(ctx context.Context, id ids.LobbyId, st *lobby.State) error {
	doc := toLobbyDocument(id, st)
	_, err := r.lobbies.ReplaceOne(ctx, bson.M{"_id": id.String()}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save lobby %s: %w", id, err)
	}
	return nil
}

func (r *MongoRepository) DeleteLobby(ctx context.Context, id ids.LobbyId) error {
	_, err := r.lobbies.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete lobby %s: %w", id, err)
	}
	return nil
}

func (r *MongoRepository) ListLobbies(ctx context.Context) ([]ids.LobbyId, error) {
	cur, err := r.lobbies.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list lobbies: %w", err)
	}
	defer cur.Close(ctx)

	var out []ids.LobbyId
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode lobby id: %w", err)
		}
		id, err := ids.ParseLobbyId(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("parse lobby id %q: %w", doc.ID, err)
		}
		out = append(out, id)
	}
	return out, cur.Err()
}

type queueDocument struct {
	ID             string   `bson:"_id"`
	PlayersToStart int      `bson:"players_to_start"`
	Players        []string `bson:"players"`
}

func (r *MongoRepository) LoadQueue(ctx context.Context, key string) (*matchmaking.Queue, bool, error) {
	var doc queueDocument
	err := r.queues.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load queue %s: %w", key, err)
	}

	players := make([]ids.PlayerId, 0, len(doc.Players))
	for _, s := range doc.Players {
		pid, err := ids.ParsePlayerId(s)
		if err != nil {
			return nil, false, fmt.Errorf("parse queued player %q: %w", s, err)
		}
		players = append(players, pid)
	}
	return matchmaking.Restore(doc.PlayersToStart, players), true, nil
}

func (r *MongoRepository) SaveQueue(ctx context.Context, key string, q *matchmaking.Queue) error {
	players := q.Players()
	doc := queueDocument{
		ID:             key,
		PlayersToStart: q.PlayersToStart,
		Players:        make([]string, len(players)),
	}
	for i, pid := range players {
		doc.Players[i] = pid.String()
	}
	_, err := r.queues.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save queue %s: %w", key, err)
	}
	return nil
}
