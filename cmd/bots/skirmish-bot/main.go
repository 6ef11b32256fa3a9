// skirmish-bot conecta no servidor como um jogador de verdade: entra na
// fila, e ao ser pareado fica gerando spawns, movimentos e ataques até a
// partida acabar. Serve para teste de carga leve e para validar o
// protocolo de ponta a ponta sem abrir o cliente 3D.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	"warfront/internal/game"
	"warfront/internal/network"
	"warfront/internal/session"
)

var unitTypes = []game.UnitType{game.UnitInfantry, game.UnitTank, game.UnitHelicopter}

type bot struct {
	name string
	conn *websocket.Conn

	// gorilla permite um escritor por vez; o actLoop e os replies
	// compartilham a conexão.
	writeMu sync.Mutex

	mu        sync.Mutex
	sessionID string
	side      game.Side
	state     *game.State
}

func main() {
	addr := envOr("SERVER_ADDR", "localhost:8080")
	name := envOr("BOT_NAME", fmt.Sprintf("skirmish-%04d", rand.IntN(10000)))

	url := fmt.Sprintf("ws://%s/ws", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("could not connect to %s: %v", url, err)
	}
	defer conn.Close()

	b := &bot{name: name, conn: conn}

	color.Cyan("[%s] connected to %s, looking for a match", name, url)
	b.send(network.MustMessage(network.EventFindMatch, session.FindMatchPayload{Username: name}))

	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			log.Fatalf("[%s] connection lost: %v", name, err)
		}

		switch msg.Type {
		case network.EventGameStart:
			var start session.GameStartPayload
			if err := json.Unmarshal(msg.Payload, &start); err != nil {
				continue
			}
			b.mu.Lock()
			b.sessionID = start.SessionID
			if start.PlayerIndex == 0 {
				b.side = game.SidePlayer1
			} else {
				b.side = game.SidePlayer2
			}
			b.mu.Unlock()
			color.Green("[%s] matched against %q (session %s, side %s)", name, start.Opponent, start.SessionID, b.side)
			go b.actLoop()

		case network.EventStateUpdate:
			var update session.StateUpdatePayload
			if err := json.Unmarshal(msg.Payload, &update); err != nil {
				continue
			}
			b.mu.Lock()
			b.state = update.State
			b.mu.Unlock()

		case network.EventGameOver:
			var over session.GameOverPayload
			json.Unmarshal(msg.Payload, &over)
			color.Yellow("[%s] game over, winning side: %s", name, over.Winner)

		case network.EventGameEnd:
			var end session.GameEndPayload
			json.Unmarshal(msg.Payload, &end)
			if end.Winner {
				color.Green("[%s] VICTORY", name)
			} else {
				color.Red("[%s] defeat", name)
			}
			return
		}
	}
}

// actLoop é o "jogador": a cada 1-3s decide uma ação com base no último
// snapshot recebido.
func (b *bot) actLoop() {
	for {
		time.Sleep(time.Duration(1000+rand.IntN(2000)) * time.Millisecond)

		b.mu.Lock()
		sessionID := b.sessionID
		side := b.side
		state := b.state
		b.mu.Unlock()

		switch rand.IntN(6) {
		case 0, 1:
			b.spawnRandomUnit(sessionID, side)
		case 2:
			b.moveRandomUnit(sessionID, side, state)
		case 3:
			b.attackRandomTarget(sessionID, side, state)
		case 4, 5:
			b.fireArtillery(sessionID, side)
		}
	}
}

func (b *bot) spawnRandomUnit(sessionID string, side game.Side) {
	unitType := unitTypes[rand.IntN(len(unitTypes))]
	spec, _ := game.SpecFor(unitType)

	x := -350.0
	if side == game.SidePlayer2 {
		x = 350.0
	}

	b.sendAction(sessionID, game.ActionUnitSpawn, game.SpawnPayload{
		Side: side,
		Unit: game.SpawnUnit{
			Type:     unitType,
			Position: game.Position{X: x + rand.Float64()*40 - 20, Z: rand.Float64()*200 - 100},
			Health:   spec.MaxHealth,
		},
	})
}

func (b *bot) moveRandomUnit(sessionID string, side game.Side, state *game.State) {
	unit := pickUnit(state, side, true)
	if unit == nil {
		return
	}
	b.sendAction(sessionID, game.ActionUnitMove, game.MovePayload{
		UnitID: unit.ID,
		Position: game.Position{
			X: unit.Position.X + rand.Float64()*60 - 30,
			Z: unit.Position.Z + rand.Float64()*60 - 30,
		},
	})
}

func (b *bot) attackRandomTarget(sessionID string, side game.Side, state *game.State) {
	attacker := pickUnit(state, side, true)
	target := pickUnit(state, side, false)
	if attacker == nil || target == nil {
		return
	}
	b.sendAction(sessionID, game.ActionUnitAttack, game.AttackPayload{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
	})
}

// fireArtillery dispara contra a base inimiga e reporta o dano do
// impacto, como o cliente 3D faz depois de resolver a balística local.
func (b *bot) fireArtillery(sessionID string, side game.Side) {
	b.sendAction(sessionID, game.ActionArtilleryFire, game.ArtilleryPayload{
		Side:     side,
		Angle:    30 + rand.Float64()*30,
		Power:    0.4 + rand.Float64()*0.6,
		Position: game.Position{X: 0, Y: 10, Z: 0},
	})
	b.sendAction(sessionID, game.ActionBaseDamage, game.BaseDamagePayload{
		Side:   side.Opponent(),
		Amount: 20 + rand.IntN(60),
	})
}

// pickUnit sorteia uma unidade do snapshot: própria (own=true) ou inimiga.
func pickUnit(state *game.State, side game.Side, own bool) *game.Unit {
	if state == nil {
		return nil
	}
	var pool []*game.Unit
	for _, u := range state.Units {
		if (u.Side == side) == own {
			pool = append(pool, u)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return pool[rand.IntN(len(pool))]
}

func (b *bot) sendAction(sessionID, actionType string, payload any) {
	if sessionID == "" {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	b.send(network.MustMessage(network.EventGameAction, session.GameActionPayload{
		SessionID: sessionID,
		Type:      actionType,
		Payload:   raw,
	}))
}

func (b *bot) send(msg network.Message) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteJSON(msg); err != nil {
		log.Fatalf("[%s] write failed: %v", b.name, err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
