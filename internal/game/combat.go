package game

import "math"

// Multiplicadores da tabela de vantagem cíclica.
const (
	advantageBonus    = 1.5
	advantagePenalty  = 0.7
	damagePerRollStep = 20
)

// combatDamage calcula o dano de um ataque a partir dos dois d6 já
// sorteados. O floor é aplicado UMA vez, depois do multiplicador;
// inverter a ordem muda o resultado em valores baixos de dano
// (ex.: rolls 2x1 com penalidade: floor(20*0.7)=14, não 0.7*20 truncado cedo).
func combatDamage(attackRoll, defenseRoll int, attacker, target UnitType) int {
	diff := attackRoll - defenseRoll
	if diff < 0 {
		diff = 0
	}
	damage := float64(diff * damagePerRollStep)

	if Beats(attacker, target) {
		damage *= advantageBonus
	} else if Beats(target, attacker) {
		damage *= advantagePenalty
	}

	return int(math.Floor(damage))
}
