package models

import "time"

// Ingredient is embedded in a cocktail, never addressed on its own.
// Amount must be strictly positive; ABV, when present, is a percentage.
type Ingredient struct {
	Name            string   `json:"name"`
	MeasurementUnit string   `json:"measurementUnit"`
	Amount          float64  `json:"amount"`
	ABV             *float64 `json:"abv,omitempty"`
}

type Cocktail struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Creator     string       `json:"creator"`
	Ingredients []Ingredient `json:"ingredients"`
	Directions  string       `json:"directions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CocktailSummary is what DELETE /cocktail/delete returns.
type CocktailSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Creator string `json:"creator"`
}
