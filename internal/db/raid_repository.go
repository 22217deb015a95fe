package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RaidPointsRow is one accumulated raid contribution score.
type RaidPointsRow struct {
	SessionID  uint32
	TemplateID int32
	Points     int64
}

// RaidRepository provides CRUD for the raid_points table.
type RaidRepository struct {
	pool *pgxpool.Pool
}

// NewRaidRepository creates a new RaidRepository.
func NewRaidRepository(pool *pgxpool.Pool) *RaidRepository {
	return &RaidRepository{pool: pool}
}

// AddPoints accumulates raid contribution for a session against one
// creature template.
func (r *RaidRepository) AddPoints(ctx context.Context, sessionID uint32, templateID int32, points int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO raid_points (session_id, template_id, points, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, template_id) DO UPDATE SET
		   points     = raid_points.points + EXCLUDED.points,
		   updated_at = EXCLUDED.updated_at`,
		int64(sessionID), templateID, points, time.Now())
	if err != nil {
		return fmt.Errorf("adding raid points for session %d: %w", sessionID, err)
	}
	return nil
}

// PointsFor loads every accumulated score of a session.
func (r *RaidRepository) PointsFor(ctx context.Context, sessionID uint32) ([]RaidPointsRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, template_id, points FROM raid_points WHERE session_id = $1`,
		int64(sessionID))
	if err != nil {
		return nil, fmt.Errorf("query raid_points: %w", err)
	}
	defer rows.Close()

	var result []RaidPointsRow
	for rows.Next() {
		var row RaidPointsRow
		var id int64
		if err := rows.Scan(&id, &row.TemplateID, &row.Points); err != nil {
			return nil, fmt.Errorf("scan raid_points: %w", err)
		}
		row.SessionID = uint32(id)
		result = append(result, row)
	}
	return result, rows.Err()
}
