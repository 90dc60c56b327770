package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sipbar/sip/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type CocktailRepo struct {
	DB *sql.DB
}

func NewCocktailRepo(db *sql.DB) *CocktailRepo {
	return &CocktailRepo{DB: db}
}

const cocktailColumns = `id, name, creator, ingredients, directions, created_at, updated_at`

func scanCocktail(row *sql.Row) (*models.Cocktail, error) {
	var c models.Cocktail
	var ingredientsJSON []byte
	err := row.Scan(&c.ID, &c.Name, &c.Creator, &ingredientsJSON, &c.Directions, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredientsJSON, &c.Ingredients); err != nil {
		return nil, err
	}
	return &c, nil
}

// ========================
// CREATE COCKTAIL
// ========================

// Create persists a new cocktail. The creator comes from the caller's
// authenticated identity, never from client input.
func (r *CocktailRepo) Create(ctx context.Context, name, creator string, ingredients []models.Ingredient, directions string) (*models.Cocktail, error) {
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return nil, err
	}

	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO cocktails (name, creator, ingredients, directions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+cocktailColumns,
		name, creator, ingredientsJSON, directions,
	)
	return scanCocktail(row)
}

// ========================
// GET COCKTAIL BY ID
// ========================

func (r *CocktailRepo) GetByID(ctx context.Context, id int) (*models.Cocktail, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+cocktailColumns+` FROM cocktails WHERE id = $1`, id)
	return scanCocktail(row)
}

// ========================
// GET OWNED COCKTAIL
// ========================

// GetOwned looks up a cocktail by id scoped to its creator. A cocktail
// owned by someone else is reported as ErrNotFound, same as a missing one.
func (r *CocktailRepo) GetOwned(ctx context.Context, id int, creator string) (*models.Cocktail, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+cocktailColumns+` FROM cocktails WHERE id = $1 AND creator = $2`,
		id, creator)
	return scanCocktail(row)
}

// ========================
// UPDATE OWNED COCKTAIL
// ========================

// UpdateOwned writes the merged cocktail back, still scoped by creator so
// a concurrent ownership change cannot widen the write. Ingredients are
// replaced whole-array.
func (r *CocktailRepo) UpdateOwned(ctx context.Context, id int, creator, name string, ingredients []models.Ingredient, directions string) (*models.Cocktail, error) {
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return nil, err
	}

	row := r.DB.QueryRowContext(ctx,
		`UPDATE cocktails
		 SET name = $1, ingredients = $2, directions = $3, updated_at = now()
		 WHERE id = $4 AND creator = $5
		 RETURNING `+cocktailColumns,
		name, ingredientsJSON, directions, id, creator,
	)
	return scanCocktail(row)
}

// ========================
// DELETE OWNED COCKTAIL
// ========================

func (r *CocktailRepo) DeleteOwned(ctx context.Context, id int, creator string) (*models.CocktailSummary, error) {
	var s models.CocktailSummary
	err := r.DB.QueryRowContext(ctx,
		`DELETE FROM cocktails WHERE id = $1 AND creator = $2
		 RETURNING id, name, creator`,
		id, creator,
	).Scan(&s.ID, &s.Name, &s.Creator)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ========================
// LIST BY CREATOR
// ========================

func (r *CocktailRepo) ListByCreator(ctx context.Context, creator string) ([]models.Cocktail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+cocktailColumns+` FROM cocktails WHERE creator = $1 ORDER BY created_at DESC`,
		creator)
	if err != nil {
		return nil, err
	}
	return collectCocktails(rows)
}

// ========================
// LIST WITH PAGINATION
// ========================

func (r *CocktailRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Cocktail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+cocktailColumns+` FROM cocktails ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	return collectCocktails(rows)
}

// ========================
// SEARCH WITH PAGINATION
// ========================

func (r *CocktailRepo) SearchPaginated(ctx context.Context, query string, limit, offset int) ([]models.Cocktail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+cocktailColumns+` FROM cocktails
		 WHERE name ILIKE $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`,
		"%"+query+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	return collectCocktails(rows)
}

func collectCocktails(rows *sql.Rows) ([]models.Cocktail, error) {
	defer rows.Close()

	var cocktails []models.Cocktail
	for rows.Next() {
		var c models.Cocktail
		var ingredientsJSON []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Creator, &ingredientsJSON, &c.Directions, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(ingredientsJSON, &c.Ingredients); err != nil {
			return nil, err
		}
		cocktails = append(cocktails, c)
	}
	return cocktails, rows.Err()
}
