package session

import (
	"log"

	"github.com/google/uuid"

	"warfront/internal/game"
	"warfront/internal/network"
	"warfront/internal/services/events"
)

// Matchmaker pareia jogadores em ordem de chegada. Também é um ator:
// a fila só é tocada pela goroutine de Run, então enfileirar e parear
// são um passo único: dois enqueues simultâneos jamais observam os
// mesmos jogadores disponíveis e os pareiam duas vezes.
type Matchmaker struct {
	queue []*Participant

	enqueueCh chan *Participant
	dropCh    chan ClientConn
	endCh     chan endRequest

	registry *Registry
	events   *events.Publisher
}

type endRequest struct {
	sessionID string
	winner    game.Side
}

// NewMatchmaker cria o matchmaker. O chamador deve iniciar `go m.Run()`.
// O publisher pode ser nil (sem barramento de eventos).
func NewMatchmaker(registry *Registry, ev *events.Publisher) *Matchmaker {
	return &Matchmaker{
		queue:     make([]*Participant, 0),
		enqueueCh: make(chan *Participant),
		dropCh:    make(chan ClientConn),
		endCh:     make(chan endRequest),
		registry:  registry,
		events:    ev,
	}
}

// Run é o loop do ator.
func (m *Matchmaker) Run() {
	log.Println("[Matchmaker] actor started")
	for {
		select {
		case p := <-m.enqueueCh:
			m.queue = append(m.queue, p)
			log.Printf("[Matchmaker] %q joined the queue (%d waiting)", p.Username, len(m.queue))
			// Pareia imediatamente; matchmaking nunca falha, só espera.
			for len(m.queue) >= 2 {
				m.pair()
			}

		case conn := <-m.dropCh:
			m.removeWaiting(conn)

		case req := <-m.endCh:
			m.endSession(req.sessionID, req.winner)
		}
	}
}

// Enqueue coloca um participante na fila de espera.
func (m *Matchmaker) Enqueue(p *Participant) {
	m.enqueueCh <- p
}

// RemoveWaiting tira da fila o participante dono da conexão, se estiver
// esperando. Chamado no disconnect para não parear um fantasma.
func (m *Matchmaker) RemoveWaiting(c ClientConn) {
	m.dropCh <- c
}

// EndSession encerra a sessão notificando cada participante se venceu.
// Idempotente: num id já removido não há efeito algum.
func (m *Matchmaker) EndSession(sessionID string, winner game.Side) {
	m.endCh <- endRequest{sessionID: sessionID, winner: winner}
}

// pair remove os dois jogadores mais antigos da fila e cria a sessão.
func (m *Matchmaker) pair() {
	p1, p2 := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]

	p1.Side = game.SidePlayer1
	p2.Side = game.SidePlayer2

	id := uuid.NewString()
	sess := NewSession(id, []*Participant{p1, p2}, func(sessionID string, winner game.Side) {
		// Chamado da goroutine da sessão; volta pela fila do ator.
		m.EndSession(sessionID, winner)
	})
	m.registry.Create(sess)

	log.Printf("[Matchmaker] match found: %q vs %q (session %s, %d still waiting)",
		p1.Username, p2.Username, id, len(m.queue))

	pair := []*Participant{p1, p2}
	for i, p := range pair {
		deliver(p.Conn, network.MustMessage(network.EventGameStart, GameStartPayload{
			SessionID:   id,
			PlayerIndex: i,
			Opponent:    pair[1-i].Username,
		}))
	}

	m.events.PublishMatchFound(events.MatchFound{
		SessionID: id,
		Players:   []string{p1.Username, p2.Username},
		StartedAt: sess.startedAt,
	})
}

func (m *Matchmaker) removeWaiting(c ClientConn) {
	for i, p := range m.queue {
		if p.Conn == c {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			log.Printf("[Matchmaker] %q left the queue (%d waiting)", p.Username, len(m.queue))
			return
		}
	}
}

func (m *Matchmaker) endSession(sessionID string, winner game.Side) {
	sess := m.registry.Remove(sessionID)
	if sess == nil {
		// Já encerrada. Segunda chamada é no-op por contrato.
		return
	}

	var winnerName string
	for _, p := range sess.Participants {
		won := p.Side == winner
		if won {
			winnerName = p.Username
		}
		deliver(p.Conn, network.MustMessage(network.EventGameEnd, GameEndPayload{Winner: won}))
	}
	sess.Stop()

	log.Printf("[Matchmaker] session %s ended, winner side %s", sessionID, winner)

	m.events.PublishMatchResult(events.MatchResult{
		SessionID:       sessionID,
		Winner:          winnerName,
		DurationSeconds: sess.Age().Seconds(),
	})
}
