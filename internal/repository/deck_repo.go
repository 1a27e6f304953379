package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"prepai-backend/internal/models"
)

type DeckRepo struct {
	pool *pgxpool.Pool
}

func NewDeckRepo(pool *pgxpool.Pool) *DeckRepo {
	return &DeckRepo{pool: pool}
}

func (r *DeckRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM decks").Scan(&count)
	return count, err
}

// FindByTopic matches the full topic string case-insensitively.
// Returns pgx.ErrNoRows when no deck matches.
func (r *DeckRepo) FindByTopic(ctx context.Context, topic string) (*models.Deck, error) {
	d := &models.Deck{}
	query := `SELECT id, topic, category, progress, created_at, updated_at
		FROM decks WHERE LOWER(topic) = LOWER($1)`

	err := r.pool.QueryRow(ctx, query, topic).Scan(
		&d.ID, &d.Topic, &d.Category, &d.Progress, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := r.loadCards(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DeckRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	d := &models.Deck{}
	query := `SELECT id, topic, category, progress, created_at, updated_at
		FROM decks WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Topic, &d.Category, &d.Progress, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := r.loadCards(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts the deck and its cards in one transaction.
func (r *DeckRepo) Create(ctx context.Context, d *models.Deck) error {
	d.ID = uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO decks (id, topic, category, progress)
		 VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		d.ID, d.Topic, d.Category, d.Progress,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range d.Cards {
		d.Cards[i].ID = uuid.New()
		d.Cards[i].DeckID = d.ID
		d.Cards[i].Position = i

		_, err := tx.Exec(ctx,
			`INSERT INTO cards (id, deck_id, question, answer, difficulty, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			d.Cards[i].ID, d.ID, d.Cards[i].Question, d.Cards[i].Answer,
			d.Cards[i].Difficulty, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// List returns every deck, newest first, cards embedded.
func (r *DeckRepo) List(ctx context.Context) ([]*models.Deck, error) {
	query := `SELECT id, topic, category, progress, created_at, updated_at
		FROM decks ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []*models.Deck
	byID := make(map[uuid.UUID]*models.Deck)
	for rows.Next() {
		d := &models.Deck{}
		err := rows.Scan(&d.ID, &d.Topic, &d.Category, &d.Progress, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		d.Cards = []models.Card{}
		decks = append(decks, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cardRows, err := r.pool.Query(ctx,
		`SELECT id, deck_id, question, answer, difficulty, position
		 FROM cards ORDER BY deck_id, position`)
	if err != nil {
		return nil, err
	}
	defer cardRows.Close()

	for cardRows.Next() {
		c := models.Card{}
		err := cardRows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Difficulty, &c.Position)
		if err != nil {
			return nil, err
		}
		if d, ok := byID[c.DeckID]; ok {
			d.Cards = append(d.Cards, c)
		}
	}
	return decks, cardRows.Err()
}

// Delete removes the deck in one statement and returns the deleted
// record, so concurrent deletes of the same id cannot both report
// success. Returns pgx.ErrNoRows when the id does not exist.
func (r *DeckRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Deck, error) {
	// Cards must be read before the delete cascades them away.
	d := &models.Deck{ID: id}
	if err := r.loadCards(ctx, d); err != nil {
		return nil, err
	}

	err := r.pool.QueryRow(ctx,
		`DELETE FROM decks WHERE id = $1
		 RETURNING id, topic, category, progress, created_at, updated_at`,
		id,
	).Scan(&d.ID, &d.Topic, &d.Category, &d.Progress, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateProgress sets progress and bumps updated_at, returning the
// updated deck. Returns pgx.ErrNoRows when the id does not exist.
func (r *DeckRepo) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) (*models.Deck, error) {
	d := &models.Deck{}
	err := r.pool.QueryRow(ctx,
		`UPDATE decks SET progress = $1, updated_at = NOW() WHERE id = $2
		 RETURNING id, topic, category, progress, created_at, updated_at`,
		progress, id,
	).Scan(&d.ID, &d.Topic, &d.Category, &d.Progress, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := r.loadCards(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DeckRepo) loadCards(ctx context.Context, d *models.Deck) error {
	rows, err := r.pool.Query(ctx,
		`SELECT id, deck_id, question, answer, difficulty, position
		 FROM cards WHERE deck_id = $1 ORDER BY position`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	d.Cards = []models.Card{}
	for rows.Next() {
		c := models.Card{}
		err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Difficulty, &c.Position)
		if err != nil {
			return err
		}
		d.Cards = append(d.Cards, c)
	}
	return rows.Err()
}
