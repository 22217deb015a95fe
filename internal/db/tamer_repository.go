package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TamerRow is the persisted slice of a tamer's state.
type TamerRow struct {
	SessionID uint32
	Name      string
	MapID     int32
	LocX      int32
	LocY      int32
	Level     int16
	Exp       int64
	HP        int32
	MaxHP     int32
	Bits      int64
}

// TamerRepository provides CRUD for the tamers table.
type TamerRepository struct {
	pool *pgxpool.Pool
}

// NewTamerRepository creates a new TamerRepository.
func NewTamerRepository(pool *pgxpool.Pool) *TamerRepository {
	return &TamerRepository{pool: pool}
}

// Save inserts or updates a tamer record.
func (r *TamerRepository) Save(ctx context.Context, row TamerRow) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tamers (session_id, name, map_id, loc_x, loc_y, level, exp, hp, max_hp, bits, last_saved_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (session_id) DO UPDATE SET
		   name          = EXCLUDED.name,
		   map_id        = EXCLUDED.map_id,
		   loc_x         = EXCLUDED.loc_x,
		   loc_y         = EXCLUDED.loc_y,
		   level         = EXCLUDED.level,
		   exp           = EXCLUDED.exp,
		   hp            = EXCLUDED.hp,
		   max_hp        = EXCLUDED.max_hp,
		   bits          = EXCLUDED.bits,
		   last_saved_at = EXCLUDED.last_saved_at`,
		int64(row.SessionID), row.Name, row.MapID, row.LocX, row.LocY,
		row.Level, row.Exp, row.HP, row.MaxHP, row.Bits, time.Now())
	if err != nil {
		return fmt.Errorf("saving tamer %d: %w", row.SessionID, err)
	}
	return nil
}

// Load retrieves a tamer record by session id.
// Returns nil, nil if the record does not exist.
func (r *TamerRepository) Load(ctx context.Context, sessionID uint32) (*TamerRow, error) {
	var row TamerRow
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT session_id, name, map_id, loc_x, loc_y, level, exp, hp, max_hp, bits
		 FROM tamers WHERE session_id = $1`, int64(sessionID),
	).Scan(&id, &row.Name, &row.MapID, &row.LocX, &row.LocY,
		&row.Level, &row.Exp, &row.HP, &row.MaxHP, &row.Bits)
	if err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, fmt.Errorf("querying tamer %d: %w", sessionID, err)
	}
	row.SessionID = uint32(id)
	return &row, nil
}
