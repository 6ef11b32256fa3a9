package game

// UnitType identifica a classe de uma unidade no campo.
type UnitType string

const (
	UnitInfantry   UnitType = "infantry"
	UnitTank       UnitType = "tank"
	UnitHelicopter UnitType = "helicopter"
)

// UnitSpec descreve os atributos fixos de uma classe de unidade.
// A vantagem de combate é cíclica: infantry > helicopter > tank > infantry.
// Representar isso como dado (campo Beats) mantém a regra em um lugar só,
// em vez de espalhada por uma hierarquia de tipos.
type UnitSpec struct {
	Cost      int
	MaxHealth int
	Speed     float64
	Beats     UnitType
}

var catalog = map[UnitType]UnitSpec{
	UnitInfantry:   {Cost: 50, MaxHealth: 100, Speed: 5, Beats: UnitHelicopter},
	UnitTank:       {Cost: 150, MaxHealth: 200, Speed: 3, Beats: UnitInfantry},
	UnitHelicopter: {Cost: 200, MaxHealth: 150, Speed: 8, Beats: UnitTank},
}

// SpecFor retorna a ficha de uma classe de unidade.
func SpecFor(t UnitType) (UnitSpec, bool) {
	spec, ok := catalog[t]
	return spec, ok
}

// CostOf retorna o custo de spawn de uma classe. Classes desconhecidas
// custam 0 e ainda assim são aceitas; ver a nota em Processor.applySpawn.
func CostOf(t UnitType) int {
	return catalog[t].Cost
}

// Beats informa se o tipo a tem vantagem cíclica sobre o tipo b.
func Beats(a, b UnitType) bool {
	return catalog[a].Beats == b
}
