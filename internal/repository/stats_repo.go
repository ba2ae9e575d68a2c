package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JairoProDev/mitube-go/internal/model"
)

// StatsRepo persists one StatsRecord row per (subject_id, kind). Totals are
// scalar columns; daily buckets and demographics are JSONB documents, so a
// record round-trips as a single row the way the aggregator hands it over.
type StatsRepo struct {
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// Find returns the record for a subject, or model.ErrNotFound if none exists.
func (r *StatsRepo) Find(ctx context.Context, subjectID string, kind model.StatsKind) (*model.StatsRecord, error) {
	query := `
		SELECT subject_id, kind, total_views, total_likes, total_dislikes, total_comments,
		       total_subscribers, watch_time_minutes, daily_buckets, demographics, last_updated
		FROM stats
		WHERE subject_id = $1 AND kind = $2`

	var rec model.StatsRecord
	var buckets, demographics []byte
	err := r.pool.QueryRow(ctx, query, subjectID, string(kind)).Scan(
		&rec.SubjectID, &rec.Kind, &rec.TotalViews, &rec.TotalLikes, &rec.TotalDislikes,
		&rec.TotalComments, &rec.TotalSubscribers, &rec.WatchTimeMinutes,
		&buckets, &demographics, &rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	if len(buckets) > 0 {
		if err := json.Unmarshal(buckets, &rec.DailyBuckets); err != nil {
			return nil, err
		}
	}
	if len(demographics) > 0 {
		if err := json.Unmarshal(demographics, &rec.Demographics); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// Insert seeds a freshly created record. A concurrent creation for the same
// subject wins silently; the caller re-reads on conflict-sensitive paths.
func (r *StatsRepo) Insert(ctx context.Context, rec *model.StatsRecord) error {
	buckets, demographics, err := marshalDocs(rec)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO stats (subject_id, kind, total_views, total_likes, total_dislikes,
		                   total_comments, total_subscribers, watch_time_minutes,
		                   daily_buckets, demographics, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subject_id, kind) DO NOTHING`,
		rec.SubjectID, string(rec.Kind), rec.TotalViews, rec.TotalLikes, rec.TotalDislikes,
		rec.TotalComments, rec.TotalSubscribers, rec.WatchTimeMinutes,
		buckets, demographics, rec.LastUpdated,
	)
	return err
}

// Save writes the full record state back, creating the row if needed.
func (r *StatsRepo) Save(ctx context.Context, rec *model.StatsRecord) error {
	buckets, demographics, err := marshalDocs(rec)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO stats (subject_id, kind, total_views, total_likes, total_dislikes,
		                   total_comments, total_subscribers, watch_time_minutes,
		                   daily_buckets, demographics, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subject_id, kind) DO UPDATE SET
			total_views = EXCLUDED.total_views,
			total_likes = EXCLUDED.total_likes,
			total_dislikes = EXCLUDED.total_dislikes,
			total_comments = EXCLUDED.total_comments,
			total_subscribers = EXCLUDED.total_subscribers,
			watch_time_minutes = EXCLUDED.watch_time_minutes,
			daily_buckets = EXCLUDED.daily_buckets,
			demographics = EXCLUDED.demographics,
			last_updated = EXCLUDED.last_updated`,
		rec.SubjectID, string(rec.Kind), rec.TotalViews, rec.TotalLikes, rec.TotalDislikes,
		rec.TotalComments, rec.TotalSubscribers, rec.WatchTimeMinutes,
		buckets, demographics, rec.LastUpdated,
	)
	return err
}

func marshalDocs(rec *model.StatsRecord) (buckets, demographics []byte, err error) {
	buckets, err = json.Marshal(rec.DailyBuckets)
	if err != nil {
		return nil, nil, err
	}
	demographics, err = json.Marshal(rec.Demographics)
	if err != nil {
		return nil, nil, err
	}
	return buckets, demographics, nil
}
