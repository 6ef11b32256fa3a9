package session

import (
	"log"

	"warfront/internal/game"
	"warfront/internal/network"
)

// ClientConn é o que a camada de sessão precisa de uma conexão:
// um canal de saída. *network.Client satisfaz a interface; os testes
// usam um fake com canal bufferizado.
type ClientConn interface {
	Send() chan<- network.Message
}

// Participant é um jogador conectado, na fila de espera ou dentro de
// exatamente uma sessão, nunca os dois ao mesmo tempo.
type Participant struct {
	Conn     ClientConn
	Username string
	Side     game.Side
}

// deliver envia sem bloquear. O buffer do canal de cada cliente absorve
// rajadas; se estiver cheio o cliente está lento demais e a mensagem é
// descartada: broadcast é fire-and-forget, sem retry nem ack.
func deliver(c ClientConn, msg network.Message) {
	select {
	case c.Send() <- msg:
	default:
		log.Printf("[Session] send buffer full, dropping %s", msg.Type)
	}
}
