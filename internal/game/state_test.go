package game

import "testing"

func TestNewStateDefaults(t *testing.T) {
	st := NewState()

	if len(st.Units) != 0 {
		t.Errorf("expected empty battlefield, got %d units", len(st.Units))
	}
	for _, side := range []Side{SidePlayer1, SidePlayer2} {
		if got := st.Resources[side]; got != StartingResources {
			t.Errorf("resources[%s] = %d, expected %d", side, got, StartingResources)
		}
		if got := st.Bases[side].Health; got != BaseStartingHealth {
			t.Errorf("bases[%s].health = %d, expected %d", side, got, BaseStartingHealth)
		}
	}
	if st.Bases[SidePlayer1].Position.X != -st.Bases[SidePlayer2].Position.X {
		t.Errorf("bases should be mirrored on X, got %v and %v",
			st.Bases[SidePlayer1].Position, st.Bases[SidePlayer2].Position)
	}
}

func TestWinner(t *testing.T) {
	tests := []struct {
		name           string
		p1Health       int
		p2Health       int
		expectedWinner Side
		expectedOver   bool
	}{
		{"both bases standing", 1000, 1000, "", false},
		{"player1 base down", 0, 500, SidePlayer2, true},
		{"player2 base down", 500, -20, SidePlayer1, true},
		// Desempate herdado do original: a base do player1 é checada
		// primeiro, então queda simultânea dá a vitória ao player2.
		{"both down resolves to player2", 0, 0, SidePlayer2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewState()
			st.Bases[SidePlayer1].Health = tt.p1Health
			st.Bases[SidePlayer2].Health = tt.p2Health

			winner, over := st.Winner()
			if over != tt.expectedOver || winner != tt.expectedWinner {
				t.Errorf("Winner() = (%q, %v), expected (%q, %v)",
					winner, over, tt.expectedWinner, tt.expectedOver)
			}
		})
	}
}

func TestRemoveUnit(t *testing.T) {
	st := NewState()
	st.Units = []*Unit{
		{ID: "a", Type: UnitInfantry, Side: SidePlayer1, Health: 100},
		{ID: "b", Type: UnitTank, Side: SidePlayer2, Health: 200},
	}

	st.RemoveUnit("a")
	if st.FindUnit("a") != nil {
		t.Error("unit a should be gone")
	}
	if st.FindUnit("b") == nil {
		t.Error("unit b should survive")
	}

	// Remover id inexistente é no-op.
	st.RemoveUnit("ghost")
	if len(st.Units) != 1 {
		t.Errorf("expected 1 unit after removing a ghost, got %d", len(st.Units))
	}
}
