package network

import (
	"encoding/json"
	"fmt"
)

// Message é o envelope padrão de toda a comunicação via WebSocket.
// O campo Type roteia o evento; o Payload fica em JSON bruto para que
// cada camada decodifique apenas o que lhe interessa.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Eventos cliente -> servidor.
const (
	EventFindMatch  = "find_match"
	EventGameAction = "game_action"
)

// Eventos servidor -> cliente.
const (
	EventGameStart   = "game_start"
	EventStateUpdate = "game_state_update"
	EventGameOver    = "game_over"
	EventGameEnd     = "game_end"
)

// NewMessage monta um envelope serializando o payload recebido.
func NewMessage(eventType string, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: eventType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal payload for %q: %w", eventType, err)
	}
	return Message{Type: eventType, Payload: raw}, nil
}

// MustMessage é a variante para payloads construídos pelo próprio servidor,
// onde um erro de marshal é um bug e não uma condição de runtime.
func MustMessage(eventType string, payload any) Message {
	msg, err := NewMessage(eventType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}
