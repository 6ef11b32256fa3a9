package session

import (
	"encoding/json"
	"log"

	"warfront/internal/game"
	"warfront/internal/network"
)

// Config ajusta as duas políticas deixadas em aberto pelo protocolo
// original; os defaults reproduzem o comportamento de lá.
type Config struct {
	// ForfeitOnDisconnect dá a vitória ao lado sobrevivente quando um
	// participante cai no meio da partida. Desligado, a sessão fica
	// ativa sem o jogador (comportamento original).
	ForfeitOnDisconnect bool
}

// Manager é o gateway entre o transporte e a lógica de sessão: implementa
// network.EventHandler, roteia find_match para o Matchmaker e game_action
// para a sessão dona. Nunca muta estado de jogo diretamente.
type Manager struct {
	registry   *Registry
	matchmaker *Matchmaker
	cfg        Config
}

// NewManager cria o gateway.
func NewManager(registry *Registry, matchmaker *Matchmaker, cfg Config) *Manager {
	return &Manager{
		registry:   registry,
		matchmaker: matchmaker,
		cfg:        cfg,
	}
}

// --- network.EventHandler ---

func (m *Manager) OnConnect(c *network.Client) {
	log.Printf("[Gateway] client connected: %s", c.Conn().RemoteAddr())
}

func (m *Manager) OnDisconnect(c *network.Client) {
	log.Printf("[Gateway] client disconnected: %s", c.Conn().RemoteAddr())
	m.HandleDisconnect(c)
}

func (m *Manager) OnMessage(c *network.Client, msg network.Message) {
	switch msg.Type {
	case network.EventFindMatch:
		m.HandleFindMatch(c, msg.Payload)
	case network.EventGameAction:
		m.HandleGameAction(c, msg.Payload)
	default:
		log.Printf("[Gateway] unknown event %q from %s dropped", msg.Type, c.Conn().RemoteAddr())
	}
}

// --- Handlers (recebem ClientConn para os testes injetarem fakes) ---

// HandleFindMatch coloca o cliente na fila de matchmaking.
func (m *Manager) HandleFindMatch(c ClientConn, payload json.RawMessage) {
	var req FindMatchPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Username == "" {
		log.Printf("[Gateway] malformed find_match payload dropped")
		return
	}
	m.matchmaker.Enqueue(&Participant{Conn: c, Username: req.Username})
}

// HandleGameAction roteia a ação para a goroutine da sessão dona.
// Id desconhecido: com lazyCreate, fabrica uma sessão default sem
// participantes (ninguém recebe os broadcasts, como no original depois
// de um teardown); no modo estrito a ação é descartada.
func (m *Manager) HandleGameAction(c ClientConn, payload json.RawMessage) {
	var req GameActionPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.SessionID == "" || req.Type == "" {
		log.Printf("[Gateway] malformed game_action payload dropped")
		return
	}

	var sess *Session
	if m.registry.LazyCreate() {
		sess = m.registry.GetOrCreate(req.SessionID, func(id string) *Session {
			log.Printf("[Gateway] lazily creating session %s for unknown id", id)
			return NewSession(id, nil, func(sessionID string, winner game.Side) {
				m.matchmaker.EndSession(sessionID, winner)
			})
		})
	} else {
		sess = m.registry.Get(req.SessionID)
		if sess == nil {
			log.Printf("[Gateway] action for unknown session %s dropped (strict mode)", req.SessionID)
			return
		}
	}

	sess.Enqueue(req.Type, req.Payload)
}

// HandleDisconnect limpa a fila de espera e, se configurado, decreta
// a vitória do lado que permaneceu conectado.
func (m *Manager) HandleDisconnect(c ClientConn) {
	m.matchmaker.RemoveWaiting(c)

	if !m.cfg.ForfeitOnDisconnect {
		return
	}
	sess := m.registry.FindByConn(c)
	if sess == nil {
		return
	}
	if side, ok := sess.SideOf(c); ok {
		log.Printf("[Gateway] forfeit: session %s awarded to %s", sess.ID, side.Opponent())
		m.matchmaker.EndSession(sess.ID, side.Opponent())
	}
}
