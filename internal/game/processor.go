package game

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tipos de ação aceitos no evento game_action. Os nomes são os do
// protocolo de fio, compartilhados com o cliente.
const (
	ActionUnitSpawn      = "UNIT_SPAWN"
	ActionUnitMove       = "UNIT_MOVE"
	ActionArtilleryFire  = "ARTILLERY_FIRE"
	ActionUnitAttack     = "UNIT_ATTACK"
	ActionResourceUpdate = "RESOURCE_UPDATE"
	ActionBaseDamage     = "BASE_DAMAGE"
)

// SpawnPayload pede a criação de uma unidade para um lado.
type SpawnPayload struct {
	Side Side      `json:"side"`
	Unit SpawnUnit `json:"unit"`
}

// SpawnUnit é a unidade como o cliente a descreve no spawn.
type SpawnUnit struct {
	Type     UnitType `json:"type"`
	Position Position `json:"position"`
	Health   int      `json:"health,omitempty"`
}

// MovePayload reposiciona uma unidade existente.
type MovePayload struct {
	UnitID   string   `json:"unitId"`
	Position Position `json:"position"`
}

// ArtilleryPayload é repassado verbatim aos participantes. A balística
// é resolvida por cada cliente; o servidor só valida o formato.
type ArtilleryPayload struct {
	Side     Side     `json:"side"`
	Angle    float64  `json:"angle"`
	Power    float64  `json:"power"`
	Position Position `json:"position"`
}

// AttackPayload resolve combate entre duas unidades.
type AttackPayload struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`
}

// BaseDamagePayload reporta dano de artilharia sobre uma base. A física
// do projétil é resolvida no cliente, então o valor vem dele, mesmo
// modelo de confiança do RESOURCE_UPDATE.
type BaseDamagePayload struct {
	Side   Side `json:"side"`
	Amount int  `json:"amount"`
}

// ResourcePayload sobrescreve (não soma) o saldo de um lado. O valor vem
// do cliente e é aplicado de forma absoluta, parte do contrato de fio.
type ResourcePayload struct {
	Side   Side `json:"side"`
	Amount int  `json:"amount"`
}

// Processor aplica ações de jogadores sobre um State. Não é seguro para
// uso concorrente: cada sessão tem o seu, e a goroutine da sessão
// serializa as chamadas.
type Processor struct {
	rng *rand.Rand

	// roll sorteia um d6. Campo separado do rng para os testes fixarem
	// sequências de dados.
	roll func() int

	// now alimenta a parte temporal dos ids de unidade.
	now func() time.Time
}

// NewProcessor cria um Processor com dados honestos (PCG semeado no relógio).
func NewProcessor() *Processor {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
	p := &Processor{rng: rng, now: time.Now}
	p.roll = func() int { return p.rng.IntN(6) + 1 }
	return p
}

// Apply executa uma ação sobre o estado. Ações malformadas, sem fundos ou
// com alvos inexistentes são descartadas em silêncio: a política é
// best-effort, nada aqui devolve erro ao jogador. Tipos de ação
// desconhecidos também caem direto; o chamador faz o broadcast do estado
// de qualquer forma, igual ao comportamento original.
func (p *Processor) Apply(st *State, actionType string, payload json.RawMessage) {
	switch actionType {
	case ActionUnitSpawn:
		p.applySpawn(st, payload)
	case ActionUnitMove:
		p.applyMove(st, payload)
	case ActionArtilleryFire:
		p.applyArtillery(payload)
	case ActionUnitAttack:
		p.applyAttack(st, payload)
	case ActionResourceUpdate:
		p.applyResourceUpdate(st, payload)
	case ActionBaseDamage:
		p.applyBaseDamage(st, payload)
	default:
		log.Printf("[Processor] unknown action type %q dropped", actionType)
	}
}

func (p *Processor) applySpawn(st *State, payload json.RawMessage) {
	var req SpawnPayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Side == "" {
		log.Printf("[Processor] malformed UNIT_SPAWN payload dropped")
		return
	}
	if _, tracked := st.Resources[req.Side]; !tracked {
		return
	}

	spec, known := SpecFor(req.Unit.Type)
	if !known {
		// Classe fora do catálogo custa 0 e ainda entra no campo.
		// Herdado do lookup original com fallback 0; mantido de propósito.
		log.Printf("[Processor] spawn of unknown unit type %q (cost 0)", req.Unit.Type)
	}

	cost := spec.Cost
	if st.Resources[req.Side] < cost {
		// Sem fundos: descarte silencioso, o jogador só percebe pelo
		// saldo que não mudou.
		return
	}
	st.Resources[req.Side] -= cost

	// O fallback de vida só vale para classes do catálogo. Fora dele a
	// vida do cliente entra verbatim, ainda que seja 0, como no spread
	// original; a ficha zerada não pode virar "vida cheia = 0 implícito".
	health := req.Unit.Health
	if health <= 0 && known {
		health = spec.MaxHealth
	}

	st.Units = append(st.Units, &Unit{
		ID:       p.newUnitID(),
		Type:     req.Unit.Type,
		Side:     req.Side,
		Position: req.Unit.Position,
		Health:   health,
	})
}

func (p *Processor) applyMove(st *State, payload json.RawMessage) {
	var req MovePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.UnitID == "" {
		return
	}
	if unit := st.FindUnit(req.UnitID); unit != nil {
		unit.Position = req.Position
	}
}

func (p *Processor) applyArtillery(payload json.RawMessage) {
	// Só validação de formato: o estado não muda e o evento segue para
	// todos os clientes resolverem a trajetória localmente.
	var req ArtilleryPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Printf("[Processor] malformed ARTILLERY_FIRE payload dropped")
	}
}

func (p *Processor) applyAttack(st *State, payload json.RawMessage) {
	var req AttackPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}

	attacker := st.FindUnit(req.AttackerID)
	target := st.FindUnit(req.TargetID)
	if attacker == nil || target == nil {
		return
	}

	damage := combatDamage(p.roll(), p.roll(), attacker.Type, target.Type)
	target.Health -= damage

	if target.Health <= 0 {
		st.RemoveUnit(target.ID)
	}
}

func (p *Processor) applyResourceUpdate(st *State, payload json.RawMessage) {
	var req ResourcePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return
	}
	// Só lados já rastreados podem ser sobrescritos.
	if _, tracked := st.Resources[req.Side]; tracked {
		st.Resources[req.Side] = req.Amount
	}
}

func (p *Processor) applyBaseDamage(st *State, payload json.RawMessage) {
	var req BaseDamagePayload
	if err := json.Unmarshal(payload, &req); err != nil || req.Amount <= 0 {
		return
	}
	if base, tracked := st.Bases[req.Side]; tracked {
		base.Health -= req.Amount
	}
}

// newUnitID gera um id único derivado de timestamp + componente aleatório.
// A probabilidade de colisão é desprezível, não formalmente zero.
func (p *Processor) newUnitID() string {
	frag := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return "unit_" + strconv.FormatInt(p.now().UnixMilli(), 10) + "_" + frag
}
