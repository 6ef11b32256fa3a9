package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Assuntos publicados no barramento de eventos de partida.
const (
	SubjectMatchFound  = "warfront.match.found"
	SubjectMatchResult = "warfront.match.result"
)

// Publisher publica eventos de ciclo de vida de partidas no NATS.
// É fire-and-forget: falha de publicação vira log, nunca erro para o
// fluxo do jogo. Um Publisher nil é válido e vira no-op, para que o
// servidor rode sem barramento em dev.
type Publisher struct {
	nc *nats.Conn
}

// MatchFound é o evento emitido quando o matchmaker forma um par.
type MatchFound struct {
	SessionID string    `json:"sessionId"`
	Players   []string  `json:"players"`
	StartedAt time.Time `json:"startedAt"`
}

// MatchResult é o evento emitido quando uma sessão termina.
type MatchResult struct {
	SessionID       string  `json:"sessionId"`
	Winner          string  `json:"winner"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// Connect abre a conexão com o NATS, tentando por alguns segundos antes
// de desistir: em docker-compose o broker pode subir depois do servidor.
func Connect(url string) (*Publisher, error) {
	var nc *nats.Conn
	var err error

	log.Printf("[Events] connecting to NATS at %s...", url)
	for i := 0; i < 10; i++ {
		nc, err = nats.Connect(url,
			nats.Name("warfront-session"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
		)
		if err == nil {
			log.Printf("[Events] connected to NATS")
			return &Publisher{nc: nc}, nil
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
}

// PublishMatchFound emite o evento de pareamento.
func (p *Publisher) PublishMatchFound(ev MatchFound) {
	p.publish(SubjectMatchFound, ev)
}

// PublishMatchResult emite o resultado de uma partida encerrada.
func (p *Publisher) PublishMatchResult(ev MatchResult) {
	p.publish(SubjectMatchResult, ev)
}

func (p *Publisher) publish(subject string, ev any) {
	if p == nil || p.nc == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Events] marshal %s failed: %v", subject, err)
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("[Events] publish %s failed: %v", subject, err)
	}
}

// Close drena a conexão. Seguro em Publisher nil.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Drain()
}
