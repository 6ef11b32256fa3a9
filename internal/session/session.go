package session

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"warfront/internal/game"
	"warfront/internal/network"
)

// actionRequest é uma ação de jogador aguardando processamento.
type actionRequest struct {
	Type    string
	Payload json.RawMessage
}

// Session é uma partida ativa entre dois participantes. Cada sessão tem
// sua própria goroutine (Run), que processa uma ação por vez: aplica a
// mutação, faz o broadcast do snapshot e avalia a condição de vitória.
// Essa fila única por sessão é o que garante que duas ações nunca
// intercalem suas mutações sobre o mesmo estado.
type Session struct {
	ID string

	// Ordenados: índice 0 é player1, índice 1 é player2. Sessões criadas
	// pelo caminho lazy não têm participantes e transmitem para ninguém.
	Participants []*Participant

	state *game.State
	proc  *game.Processor

	incoming chan actionRequest
	quit     chan struct{}
	stopOnce sync.Once

	startedAt time.Time

	// onWin é chamado (da goroutine da sessão) quando uma base cai.
	// O matchmaker injeta aqui o caminho de teardown.
	onWin func(sessionID string, winner game.Side)
}

// NewSession monta uma sessão com estado inicial padrão.
func NewSession(id string, participants []*Participant, onWin func(string, game.Side)) *Session {
	return &Session{
		ID:           id,
		Participants: participants,
		state:        game.NewState(),
		proc:         game.NewProcessor(),
		incoming:     make(chan actionRequest, 64),
		quit:         make(chan struct{}),
		startedAt:    time.Now(),
		onWin:        onWin,
	}
}

// Run é o loop da sessão. Encerra quando Stop é chamado.
func (s *Session) Run() {
	for {
		select {
		case req := <-s.incoming:
			s.handle(req)
		case <-s.quit:
			return
		}
	}
}

// Enqueue entrega uma ação para o loop da sessão. Se a fila estiver
// cheia ou a sessão já tiver parado, a ação é descartada, mesma
// política best-effort do resto do pipeline.
func (s *Session) Enqueue(actionType string, payload json.RawMessage) {
	select {
	case s.incoming <- actionRequest{Type: actionType, Payload: payload}:
	case <-s.quit:
	default:
		log.Printf("[Session %s] action queue full, dropping %s", s.ID, actionType)
	}
}

// Stop encerra a goroutine da sessão. Idempotente.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
}

// SideOf retorna o lado do participante dono da conexão dada.
func (s *Session) SideOf(c ClientConn) (game.Side, bool) {
	for _, p := range s.Participants {
		if p.Conn == c {
			return p.Side, true
		}
	}
	return "", false
}

// Age informa há quanto tempo a sessão existe.
func (s *Session) Age() time.Duration {
	return time.Since(s.startedAt)
}

// handle processa uma ação de ponta a ponta. Roda apenas na goroutine
// da sessão; é o único lugar que muta s.state.
func (s *Session) handle(req actionRequest) {
	s.proc.Apply(s.state, req.Type, req.Payload)

	// Snapshot completo para todos os participantes, mesmo quando a ação
	// foi descartada: o cliente reconcilia pelo estado, não por acks.
	s.broadcast(network.MustMessage(network.EventStateUpdate, StateUpdatePayload{
		Type:  req.Type,
		State: s.state,
	}))

	if winner, over := s.state.Winner(); over {
		s.broadcast(network.MustMessage(network.EventGameOver, GameOverPayload{Winner: winner}))
		if s.onWin != nil {
			s.onWin(s.ID, winner)
		}
	}
}

func (s *Session) broadcast(msg network.Message) {
	for _, p := range s.Participants {
		deliver(p.Conn, msg)
	}
}
