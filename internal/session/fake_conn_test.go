package session

import (
	"encoding/json"
	"testing"
	"time"

	"warfront/internal/network"
)

// fakeConn substitui *network.Client nos testes: só um canal bufferizado.
type fakeConn struct {
	ch chan network.Message
}

func newFakeConn() *fakeConn {
	return &fakeConn{ch: make(chan network.Message, 64)}
}

func (f *fakeConn) Send() chan<- network.Message {
	return f.ch
}

// expect lê mensagens até encontrar o tipo pedido, descartando as demais
// (state updates intercalam com os eventos de ciclo de vida).
func (f *fakeConn) expect(t *testing.T, eventType string) network.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-f.ch:
			if msg.Type == eventType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", eventType)
			return network.Message{}
		}
	}
}

// expectNothing garante silêncio no canal por uma janela curta.
func (f *fakeConn) expectNothing(t *testing.T) {
	t.Helper()
	select {
	case msg := <-f.ch:
		t.Fatalf("expected no message, got %s", msg.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func decodePayload[T any](t *testing.T, msg network.Message) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(msg.Payload, &out); err != nil {
		t.Fatalf("decode %s payload: %v", msg.Type, err)
	}
	return out
}
