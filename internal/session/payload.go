package session

import (
	"encoding/json"

	"warfront/internal/game"
)

// Payloads do protocolo de fio. Os nomes de campo espelham o que o
// cliente do navegador envia e espera receber.

// FindMatchPayload acompanha o evento find_match.
type FindMatchPayload struct {
	Username string `json:"username"`
}

// GameActionPayload acompanha o evento game_action.
type GameActionPayload struct {
	SessionID string          `json:"sessionId"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// GameStartPayload é enviado a cada jogador pareado.
type GameStartPayload struct {
	SessionID   string `json:"sessionId"`
	PlayerIndex int    `json:"playerIndex"`
	Opponent    string `json:"opponent"`
}

// StateUpdatePayload carrega o snapshot completo do estado (não um diff)
// junto com o tipo da ação que o produziu.
type StateUpdatePayload struct {
	Type  string      `json:"type"`
	State *game.State `json:"state"`
}

// GameOverPayload anuncia o lado vencedor a toda a sessão.
type GameOverPayload struct {
	Winner game.Side `json:"winner"`
}

// GameEndPayload diz a cada participante, individualmente, se ele venceu.
type GameEndPayload struct {
	Winner bool `json:"winner"`
}
