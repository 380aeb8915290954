package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CidyChou/jackaroo-queen-sub001/internal/domain"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Record(ctx context.Context, m *domain.Match) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO matches (room_code, winner_seat, winner_color, turns, bots)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		m.RoomCode,
		m.WinnerSeat,
		m.WinnerColor,
		m.Turns,
		m.Bots,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, room_code, winner_seat, winner_color, turns, bots, created_at
         FROM matches
         ORDER BY created_at DESC
         LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Match
	for rows.Next() {
		m := &domain.Match{}
		if err := rows.Scan(&m.ID, &m.RoomCode, &m.WinnerSeat, &m.WinnerColor, &m.Turns, &m.Bots, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
