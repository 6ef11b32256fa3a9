package auth

import "time"

// Stats são os contadores persistidos de um jogador. O cliente envia
// deltas via PUT /stats ao fim de cada partida.
type Stats struct {
	GamesPlayed    int `json:"gamesPlayed"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	ArtilleryHits  int `json:"artilleryHits"`
	UnitsDestroyed int `json:"unitsDestroyed"`
}

// User é a conta de um jogador. PasswordHash nunca sai em JSON.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Stats        Stats     `json:"stats"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public é a projeção de User devolvida pela API.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Stats    Stats  `json:"stats"`
}

// Public projeta o usuário para resposta de API.
func (u *User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Stats: u.Stats}
}
