package game

import "testing"

func TestCatalogCosts(t *testing.T) {
	tests := []struct {
		unitType UnitType
		cost     int
	}{
		{UnitInfantry, 50},
		{UnitTank, 150},
		{UnitHelicopter, 200},
		{"mech", 0}, // fora do catálogo: custo 0, de propósito
	}
	for _, tt := range tests {
		if got := CostOf(tt.unitType); got != tt.cost {
			t.Errorf("CostOf(%s) = %d, expected %d", tt.unitType, got, tt.cost)
		}
	}
}

func TestSpecForUnknownType(t *testing.T) {
	if _, ok := SpecFor("mech"); ok {
		t.Error("unknown type should not be in the catalog")
	}
	spec, ok := SpecFor(UnitTank)
	if !ok || spec.MaxHealth != 200 || spec.Beats != UnitInfantry {
		t.Errorf("unexpected tank spec: %+v (ok=%v)", spec, ok)
	}
}
