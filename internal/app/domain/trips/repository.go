// Package trips is the persistence collaborator for itineraries.
package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
	"github.com/FACorreiaa/go-tripweaver/internal/observability/metrics"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository defines itinerary storage operations.
type Repository interface {
	Save(ctx context.Context, userID uuid.UUID, req *models.SaveItineraryRequest, contentHash string) (*models.SaveItineraryResult, error)
	Load(ctx context.Context, userID, itineraryID uuid.UUID) (*models.StoredItinerary, error)
	List(ctx context.Context, userID uuid.UUID, search string) ([]models.ItinerarySummary, error)
	Delete(ctx context.Context, userID, itineraryID uuid.UUID) error
}

var _ Repository = (*RepositoryImpl)(nil)

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool PgxPool
}

func NewRepository(pgpool PgxPool, logger *zap.Logger) *RepositoryImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// Save inserts or updates an itinerary. An update whose content hash matches
// the stored one is reported unchanged and leaves the row untouched. When the
// stored row is newer than the client's last-seen revision the write still
// wins, but the result flags the conflict as resolved.
func (r *RepositoryImpl) Save(ctx context.Context, userID uuid.UUID, req *models.SaveItineraryRequest, contentHash string) (*models.SaveItineraryResult, error) {
	editorData, err := json.Marshal(req.EditorData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode editor data: %w", err)
	}
	directionsData, err := marshalNullable(req.Directions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode directions: %w", err)
	}
	metadata, err := marshalNullable(req.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	started := time.Now()
	defer func() {
		metrics.Get().DBQueryDurationSeconds.Record(ctx, time.Since(started).Seconds())
	}()

	if req.ID == nil {
		query := `
        INSERT INTO itineraries (user_id, title, editor_data, directions, metadata, content_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, updated_at
    `
		var (
			id      uuid.UUID
			savedAt time.Time
		)
		err := r.pgpool.QueryRow(ctx, query, userID, req.Title, editorData, directionsData, metadata, contentHash).
			Scan(&id, &savedAt)
		if err != nil {
			metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
			r.logger.Error("Failed to insert itinerary", zap.Error(err))
			return nil, fmt.Errorf("failed to insert itinerary: %w", err)
		}
		return &models.SaveItineraryResult{ID: id, Success: true, SavedAt: savedAt}, nil
	}

	var (
		storedHash      string
		storedUpdatedAt time.Time
	)
	selectQuery := `SELECT content_hash, updated_at FROM itineraries WHERE id = $1 AND user_id = $2`
	err = r.pgpool.QueryRow(ctx, selectQuery, *req.ID, userID).Scan(&storedHash, &storedUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("failed to read stored itinerary: %w", err)
	}

	if storedHash == contentHash {
		return &models.SaveItineraryResult{
			ID:        *req.ID,
			Success:   true,
			Unchanged: true,
			SavedAt:   storedUpdatedAt,
		}, nil
	}

	conflictResolved := !req.LastSaved.IsZero() && storedUpdatedAt.After(req.LastSaved)

	updateQuery := `
        UPDATE itineraries
        SET title = $3, editor_data = $4, directions = $5, metadata = $6, content_hash = $7, updated_at = now()
        WHERE id = $1 AND user_id = $2
        RETURNING updated_at
    `
	var savedAt time.Time
	err = r.pgpool.QueryRow(ctx, updateQuery, *req.ID, userID, req.Title, editorData, directionsData, metadata, contentHash).
		Scan(&savedAt)
	if err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		r.logger.Error("Failed to update itinerary", zap.Error(err), zap.String("itinerary_id", req.ID.String()))
		return nil, fmt.Errorf("failed to update itinerary: %w", err)
	}

	return &models.SaveItineraryResult{
		ID:               *req.ID,
		Success:          true,
		ConflictResolved: conflictResolved,
		SavedAt:          savedAt,
	}, nil
}

// Load fetches a stored itinerary owned by the user.
func (r *RepositoryImpl) Load(ctx context.Context, userID, itineraryID uuid.UUID) (*models.StoredItinerary, error) {
	query := `
        SELECT id, user_id, title, editor_data, directions, metadata, content_hash, created_at, updated_at
        FROM itineraries
        WHERE id = $1 AND user_id = $2
    `
	var (
		stored         models.StoredItinerary
		editorData     []byte
		directionsData []byte
		metadata       []byte
	)
	err := r.pgpool.QueryRow(ctx, query, itineraryID, userID).Scan(
		&stored.ID, &stored.UserID, &stored.Title, &editorData, &directionsData, &metadata,
		&stored.ContentHash, &stored.CreatedAt, &stored.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		r.logger.Error("Failed to load itinerary", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		return nil, fmt.Errorf("failed to load itinerary: %w", err)
	}

	stored.EditorData = &models.BlockDocument{}
	if err := json.Unmarshal(editorData, stored.EditorData); err != nil {
		return nil, fmt.Errorf("failed to decode editor data: %w", err)
	}
	if len(directionsData) > 0 {
		stored.Directions = &models.RouteData{}
		if err := json.Unmarshal(directionsData, stored.Directions); err != nil {
			return nil, fmt.Errorf("failed to decode directions: %w", err)
		}
	}
	if len(metadata) > 0 {
		stored.Metadata = &models.TripMetadata{}
		if err := json.Unmarshal(metadata, stored.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}

	return &stored, nil
}

// List returns itinerary summaries for a user, optionally filtered by a
// title search term, most recently updated first.
func (r *RepositoryImpl) List(ctx context.Context, userID uuid.UUID, search string) ([]models.ItinerarySummary, error) {
	builder := sq.Select("id", "title", "metadata", "updated_at").
		From("itineraries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		PlaceholderFormat(sq.Dollar)
	if search != "" {
		builder = builder.Where(sq.ILike{"title": "%" + search + "%"})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		r.logger.Error("Failed to list itineraries", zap.Error(err))
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	defer rows.Close()

	summaries := []models.ItinerarySummary{}
	for rows.Next() {
		var (
			summary  models.ItinerarySummary
			metadata []byte
		)
		if err := rows.Scan(&summary.ID, &summary.Title, &metadata, &summary.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan itinerary summary: %w", err)
		}
		if len(metadata) > 0 {
			var meta models.TripMetadata
			if err := json.Unmarshal(metadata, &meta); err == nil {
				summary.Destination = meta.Destination
				summary.TotalDays = meta.TotalDays
			}
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading itinerary summaries: %w", err)
	}

	return summaries, nil
}

// Delete removes an itinerary owned by the user.
func (r *RepositoryImpl) Delete(ctx context.Context, userID, itineraryID uuid.UUID) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1 AND user_id = $2`, itineraryID, userID)
	if err != nil {
		metrics.Get().DBQueryErrorsTotal.Add(ctx, 1)
		r.logger.Error("Failed to delete itinerary", zap.Error(err), zap.String("itinerary_id", itineraryID.String()))
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func marshalNullable[T any](value *T) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}
