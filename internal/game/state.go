package game

import "math/rand/v2"

// Side identifica um dos dois lados de uma partida.
type Side string

const (
	SidePlayer1 Side = "player1"
	SidePlayer2 Side = "player2"
)

// Opponent retorna o lado adversário.
func (s Side) Opponent() Side {
	if s == SidePlayer1 {
		return SidePlayer2
	}
	return SidePlayer1
}

const (
	// Saldo inicial de cada lado.
	StartingResources = 500

	// Vida inicial da base de cada lado.
	BaseStartingHealth = 1000

	// As bases ficam espelhadas no eixo X.
	baseOffsetX = 400
)

// Position é uma coordenada no terreno. O cliente usa Y para altura,
// então o plano do jogo é X/Z.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z"`
}

// Unit é uma unidade viva no campo. Health <= 0 significa remoção
// imediata da lista; não existe estado de "destroçado".
type Unit struct {
	ID       string   `json:"id"`
	Type     UnitType `json:"type"`
	Side     Side     `json:"side"`
	Position Position `json:"position"`
	Health   int      `json:"health"`
}

// Base é o objetivo de cada lado; vida <= 0 encerra a partida.
type Base struct {
	Health   int      `json:"health"`
	Position Position `json:"position"`
}

// Terrain carrega apenas a semente; a malha em si é gerada no cliente.
type Terrain struct {
	Seed float64 `json:"seed"`
}

// State é o modelo autoritativo e mutável de uma partida. É de posse
// exclusiva da sessão dona; toda mutação passa pelo Processor, já
// serializada pela goroutine da sessão.
type State struct {
	Units     []*Unit        `json:"units"`
	Resources map[Side]int   `json:"resources"`
	Bases     map[Side]*Base `json:"bases"`
	Terrain   Terrain        `json:"terrain"`
}

// NewState monta o estado inicial padrão de uma partida:
// campo vazio, 500 de recursos por lado, bases com 1000 de vida
// em posições espelhadas.
func NewState() *State {
	return &State{
		Units: make([]*Unit, 0),
		Resources: map[Side]int{
			SidePlayer1: StartingResources,
			SidePlayer2: StartingResources,
		},
		Bases: map[Side]*Base{
			SidePlayer1: {Health: BaseStartingHealth, Position: Position{X: -baseOffsetX, Z: 0}},
			SidePlayer2: {Health: BaseStartingHealth, Position: Position{X: baseOffsetX, Z: 0}},
		},
		Terrain: Terrain{Seed: rand.Float64()},
	}
}

// FindUnit retorna a unidade com o id dado, ou nil.
func (s *State) FindUnit(id string) *Unit {
	for _, u := range s.Units {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// RemoveUnit tira a unidade da lista. No-op se o id não existir.
func (s *State) RemoveUnit(id string) {
	for i, u := range s.Units {
		if u.ID == id {
			s.Units = append(s.Units[:i], s.Units[i+1:]...)
			return
		}
	}
}

// Winner avalia a condição de vitória. A base do player1 é checada
// primeiro; se as duas caírem na mesma avaliação, o player2 vence.
// O desempate é herdado da ordem do if/else original, não é regra de design.
func (s *State) Winner() (Side, bool) {
	if b := s.Bases[SidePlayer1]; b != nil && b.Health <= 0 {
		return SidePlayer2, true
	}
	if b := s.Bases[SidePlayer2]; b != nil && b.Health <= 0 {
		return SidePlayer1, true
	}
	return "", false
}
