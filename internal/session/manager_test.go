package session

import (
	"encoding/json"
	"testing"

	"warfront/internal/game"
	"warfront/internal/network"
)

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

// startMatch enfileira os dois lados e devolve o id da sessão criada.
func startMatch(t *testing.T, mgr *Manager, p1, p2 *fakeConn) string {
	t.Helper()
	mgr.HandleFindMatch(p1, raw(t, FindMatchPayload{Username: "ana"}))
	mgr.HandleFindMatch(p2, raw(t, FindMatchPayload{Username: "bia"}))

	start := decodePayload[GameStartPayload](t, p1.expect(t, network.EventGameStart))
	p2.expect(t, network.EventGameStart)
	return start.SessionID
}

func sendAction(t *testing.T, mgr *Manager, c *fakeConn, sessionID, actionType string, payload any) {
	t.Helper()
	mgr.HandleGameAction(c, raw(t, GameActionPayload{
		SessionID: sessionID,
		Type:      actionType,
		Payload:   raw(t, payload),
	}))
}

func TestManagerDropsMalformedFindMatch(t *testing.T) {
	_, _, mgr := newTestStack(t, true, Config{})

	conn := newFakeConn()
	mgr.HandleFindMatch(conn, json.RawMessage(`{not json`))
	mgr.HandleFindMatch(conn, raw(t, FindMatchPayload{Username: ""}))

	conn.expectNothing(t)
}

func TestManagerRoutesActionsToOwningSession(t *testing.T) {
	_, _, mgr := newTestStack(t, true, Config{})

	p1, p2 := newFakeConn(), newFakeConn()
	id := startMatch(t, mgr, p1, p2)

	sendAction(t, mgr, p1, id, game.ActionUnitSpawn, game.SpawnPayload{
		Side: game.SidePlayer1,
		Unit: game.SpawnUnit{Type: game.UnitTank},
	})

	// Os dois lados recebem o mesmo snapshot, já com o débito aplicado.
	for _, c := range []*fakeConn{p1, p2} {
		update := decodePayload[StateUpdatePayload](t, c.expect(t, network.EventStateUpdate))
		if update.Type != game.ActionUnitSpawn {
			t.Errorf("update action = %q, expected %q", update.Type, game.ActionUnitSpawn)
		}
		if got := update.State.Resources[game.SidePlayer1]; got != 350 {
			t.Errorf("resources in snapshot = %d, expected 350", got)
		}
		if len(update.State.Units) != 1 {
			t.Errorf("snapshot has %d units, expected 1", len(update.State.Units))
		}
	}
}

func TestManagerLazyCreatesUnknownSessions(t *testing.T) {
	reg, _, mgr := newTestStack(t, true, Config{})

	conn := newFakeConn()
	sendAction(t, mgr, conn, "never-created", game.ActionResourceUpdate,
		game.ResourcePayload{Side: game.SidePlayer1, Amount: 1})

	// A sessão fabricada existe mas não tem participantes: o broadcast
	// não chega a ninguém, nem ao remetente.
	if reg.Get("never-created") == nil {
		t.Fatal("lazy mode should fabricate the session")
	}
	conn.expectNothing(t)
}

func TestManagerStrictDropsUnknownSessions(t *testing.T) {
	reg, _, mgr := newTestStack(t, false, Config{})

	conn := newFakeConn()
	sendAction(t, mgr, conn, "never-created", game.ActionResourceUpdate,
		game.ResourcePayload{Side: game.SidePlayer1, Amount: 1})

	if reg.Get("never-created") != nil {
		t.Fatal("strict mode must not fabricate sessions")
	}
	conn.expectNothing(t)
}

func TestBaseKillEndsTheMatch(t *testing.T) {
	reg, _, mgr := newTestStack(t, true, Config{})

	p1, p2 := newFakeConn(), newFakeConn()
	id := startMatch(t, mgr, p1, p2)

	// Primeiro golpe deixa a base do player2 quase caindo; nada encerra.
	sendAction(t, mgr, p1, id, game.ActionBaseDamage,
		game.BaseDamagePayload{Side: game.SidePlayer2, Amount: 985})

	update := decodePayload[StateUpdatePayload](t, p1.expect(t, network.EventStateUpdate))
	if got := update.State.Bases[game.SidePlayer2].Health; got != 15 {
		t.Fatalf("base health = %d, expected 15", got)
	}
	p2.expect(t, network.EventStateUpdate)
	p1.expectNothing(t)

	// O golpe seguinte cruza o zero: game_over com o lado vencedor,
	// depois game_end individual e a sessão sai do registro.
	sendAction(t, mgr, p2, id, game.ActionBaseDamage,
		game.BaseDamagePayload{Side: game.SidePlayer2, Amount: 20})

	over := decodePayload[GameOverPayload](t, p1.expect(t, network.EventGameOver))
	if over.Winner != game.SidePlayer1 {
		t.Errorf("winner = %q, expected %q", over.Winner, game.SidePlayer1)
	}
	p2.expect(t, network.EventGameOver)

	if end := decodePayload[GameEndPayload](t, p1.expect(t, network.EventGameEnd)); !end.Winner {
		t.Error("player1 should win")
	}
	if end := decodePayload[GameEndPayload](t, p2.expect(t, network.EventGameEnd)); end.Winner {
		t.Error("player2 should lose")
	}
	waitForRemoval(t, reg, id)

	// Ações tardias num id já removido voltam pelo caminho lazy e são
	// absorvidas por uma sessão vazia, sem eco para os jogadores.
	sendAction(t, mgr, p1, id, game.ActionResourceUpdate,
		game.ResourcePayload{Side: game.SidePlayer1, Amount: 1})
	p1.expectNothing(t)
	p2.expectNothing(t)
}

func TestForfeitOnDisconnect(t *testing.T) {
	reg, _, mgr := newTestStack(t, true, Config{ForfeitOnDisconnect: true})

	p1, p2 := newFakeConn(), newFakeConn()
	id := startMatch(t, mgr, p1, p2)

	mgr.HandleDisconnect(p1)

	if end := decodePayload[GameEndPayload](t, p2.expect(t, network.EventGameEnd)); !end.Winner {
		t.Error("surviving side should be awarded the win")
	}
	waitForRemoval(t, reg, id)
}

func TestDisconnectWithoutForfeitKeepsSessionAlive(t *testing.T) {
	reg, _, mgr := newTestStack(t, true, Config{})

	p1, p2 := newFakeConn(), newFakeConn()
	id := startMatch(t, mgr, p1, p2)

	mgr.HandleDisconnect(p1)
	p2.expectNothing(t)

	if reg.Get(id) == nil {
		t.Fatal("session should stay active without forfeit")
	}

	// O lado restante continua jogando normalmente.
	sendAction(t, mgr, p2, id, game.ActionResourceUpdate,
		game.ResourcePayload{Side: game.SidePlayer2, Amount: 700})
	update := decodePayload[StateUpdatePayload](t, p2.expect(t, network.EventStateUpdate))
	if got := update.State.Resources[game.SidePlayer2]; got != 700 {
		t.Errorf("resources = %d, expected 700", got)
	}
}
