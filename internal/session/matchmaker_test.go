package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"warfront/internal/game"
	"warfront/internal/network"
)

func newTestStack(t *testing.T, lazy bool, cfg Config) (*Registry, *Matchmaker, *Manager) {
	t.Helper()
	r := NewRegistry(lazy)
	go r.Run()
	m := NewMatchmaker(r, nil)
	go m.Run()
	return r, m, NewManager(r, m, cfg)
}

// waitForRemoval espera a sessão sumir do registro. O teardown passa por
// dois atores, então o teste sincroniza por polling e não por sleep fixo.
func waitForRemoval(t *testing.T, r *Registry, sessionID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.Get(sessionID) == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session %s was never removed from the registry", sessionID)
}

func TestMatchmakerPairsInArrivalOrder(t *testing.T) {
	_, mm, _ := newTestStack(t, true, Config{})

	conns := make([]*fakeConn, 4)
	names := []string{"ana", "bia", "caio", "davi"}
	for i, name := range names {
		conns[i] = newFakeConn()
		mm.Enqueue(&Participant{Conn: conns[i], Username: name})
	}

	starts := make([]GameStartPayload, 4)
	for i, c := range conns {
		starts[i] = decodePayload[GameStartPayload](t, c.expect(t, network.EventGameStart))
	}

	// FIFO: (ana, bia) e (caio, davi), nunca cruzado.
	if starts[0].Opponent != "bia" || starts[1].Opponent != "ana" {
		t.Errorf("first pair should be ana vs bia, got opponents %q and %q",
			starts[0].Opponent, starts[1].Opponent)
	}
	if starts[2].Opponent != "davi" || starts[3].Opponent != "caio" {
		t.Errorf("second pair should be caio vs davi, got opponents %q and %q",
			starts[2].Opponent, starts[3].Opponent)
	}

	if starts[0].SessionID != starts[1].SessionID {
		t.Error("paired players should share a session id")
	}
	if starts[0].SessionID == starts[2].SessionID {
		t.Error("distinct pairs should get distinct session ids")
	}

	// Índice 0 é player1, índice 1 é player2.
	if starts[0].PlayerIndex != 0 || starts[1].PlayerIndex != 1 {
		t.Errorf("player indexes = %d and %d, expected 0 and 1",
			starts[0].PlayerIndex, starts[1].PlayerIndex)
	}
}

func TestMatchmakerPairingUnderConcurrentEnqueues(t *testing.T) {
	_, mm, _ := newTestStack(t, true, Config{})

	// Enfileira todo mundo ao mesmo tempo, de goroutines separadas. O ator
	// precisa dar a cada jogador exatamente uma sessão, sempre com dois
	// jogadores por id; ninguém pode ser pareado duas vezes nem sobrar.
	const players = 40
	conns := make([]*fakeConn, players)
	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		conns[i] = newFakeConn()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mm.Enqueue(&Participant{Conn: conns[i], Username: fmt.Sprintf("p%02d", i)})
		}(i)
	}
	wg.Wait()

	sessions := make(map[string][]int)
	for _, c := range conns {
		start := decodePayload[GameStartPayload](t, c.expect(t, network.EventGameStart))
		sessions[start.SessionID] = append(sessions[start.SessionID], start.PlayerIndex)
	}

	if len(sessions) != players/2 {
		t.Fatalf("%d players produced %d sessions, expected %d", players, len(sessions), players/2)
	}
	for id, indexes := range sessions {
		if len(indexes) != 2 {
			t.Errorf("session %s has %d players, expected 2", id, len(indexes))
			continue
		}
		if indexes[0]+indexes[1] != 1 {
			t.Errorf("session %s has player indexes %v, expected one 0 and one 1", id, indexes)
		}
	}

	// Nenhum jogador pode receber um segundo game_start.
	for _, c := range conns {
		c.expectNothing(t)
	}
}

func TestMatchmakerSinglePlayerWaits(t *testing.T) {
	_, mm, _ := newTestStack(t, true, Config{})

	conn := newFakeConn()
	mm.Enqueue(&Participant{Conn: conn, Username: "sozinho"})

	conn.expectNothing(t)
}

func TestMatchmakerRemoveWaiting(t *testing.T) {
	_, mm, _ := newTestStack(t, true, Config{})

	quitter := newFakeConn()
	mm.Enqueue(&Participant{Conn: quitter, Username: "desistente"})
	mm.RemoveWaiting(quitter)

	a, b := newFakeConn(), newFakeConn()
	mm.Enqueue(&Participant{Conn: a, Username: "ana"})
	mm.Enqueue(&Participant{Conn: b, Username: "bia"})

	start := decodePayload[GameStartPayload](t, a.expect(t, network.EventGameStart))
	if start.Opponent != "bia" {
		t.Errorf("quitter should have left the queue; ana paired with %q", start.Opponent)
	}
	quitter.expectNothing(t)
}

func TestEndSessionNotifiesAndIsIdempotent(t *testing.T) {
	reg, mm, _ := newTestStack(t, true, Config{})

	a, b := newFakeConn(), newFakeConn()
	mm.Enqueue(&Participant{Conn: a, Username: "ana"})
	mm.Enqueue(&Participant{Conn: b, Username: "bia"})

	start := decodePayload[GameStartPayload](t, a.expect(t, network.EventGameStart))
	b.expect(t, network.EventGameStart)

	mm.EndSession(start.SessionID, game.SidePlayer1)

	if end := decodePayload[GameEndPayload](t, a.expect(t, network.EventGameEnd)); !end.Winner {
		t.Error("player1 should be notified as winner")
	}
	if end := decodePayload[GameEndPayload](t, b.expect(t, network.EventGameEnd)); end.Winner {
		t.Error("player2 should be notified as loser")
	}
	waitForRemoval(t, reg, start.SessionID)

	// Segunda chamada com o mesmo id: nada acontece.
	mm.EndSession(start.SessionID, game.SidePlayer2)
	a.expectNothing(t)
	b.expectNothing(t)
}
