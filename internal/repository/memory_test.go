package repository

import (
	"context"
	"testing"

	"github.com/ndrandal/tradinggame/internal/game"
	"github.com/ndrandal/tradinggame/internal/ids"
	"github.com/ndrandal/tradinggame/internal/lobby"
)

func TestMapRepositoryGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMapRepository()
	id := ids.NewGameId()

	_, ok, err := repo.LoadGame(ctx, id)
	if err != nil || ok {
		t.Fatalf("expected miss on empty repository, got ok=%v err=%v", ok, err)
	}

	st := game.New(game.DefaultConfig(), []ids.PlayerId{ids.NewPlayerId()})
	if err := repo.SaveGame(ctx, id, st); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	got, ok, err := repo.LoadGame(ctx, id)
	if err != nil || !ok {
		t.Fatalf("expected hit after save, got ok=%v err=%v", ok, err)
	}
	if got != st {
		t.Fatal("expected the same state pointer back")
	}

	if err := repo.DeleteGame(ctx, id); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, ok, _ := repo.LoadGame(ctx, id); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMapRepositoryLobbyRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMapRepository()
	id := ids.NewLobbyId()

	st := lobby.New(id, []ids.PlayerId{ids.NewPlayerId()})
	if err := repo.SaveLobby(ctx, id, st); err != nil {
		t.Fatalf("SaveLobby: %v", err)
	}
	if _, ok, _ := repo.LoadLobby(ctx, id); !ok {
		t.Fatal("expected hit after save")
	}
	if err := repo.DeleteLobby(ctx, id); err != nil {
		t.Fatalf("DeleteLobby: %v", err)
	}
	if _, ok, _ := repo.LoadLobby(ctx, id); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestMapRepositoryCountsAreIndependent(t *testing.T) {
	ctx := context.Background()
	repo := NewMapRepository()

	repo.SaveGame(ctx, ids.NewGameId(), game.New(game.DefaultConfig(), nil))
	repo.SaveLobby(ctx, ids.NewLobbyId(), lobby.New(ids.NewLobbyId(), nil))

	if repo.GameCount() != 1 {
		t.Fatalf("GameCount = %d, want 1", repo.GameCount())
	}
	if repo.LobbyCount() != 1 {
		t.Fatalf("LobbyCount = %d, want 1", repo.LobbyCount())
	}
}

func TestMapRepositoryListGamesAndLobbies(t *testing.T) {
	ctx := context.Background()
	repo := NewMapRepository()

	gid := ids.NewGameId()
	lid := ids.NewLobbyId()
	repo.SaveGame(ctx, gid, game.New(game.DefaultConfig(), nil))
	repo.SaveLobby(ctx, lid, lobby.New(lid, nil))

	games, err := repo.ListGames(ctx)
	if err != nil || len(games) != 1 || games[0] != gid {
		t.Fatalf("ListGames = %v, err=%v, want [%v]", games, err, gid)
	}

	lobbies, err := repo.ListLobbies(ctx)
	if err != nil || len(lobbies) != 1 || lobbies[0] != lid {
		t.Fatalf("ListLobbies = %v, err=%v, want [%v]", lobbies, err, lid)
	}
}
