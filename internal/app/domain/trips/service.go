package trips

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/notebook"
	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
	"github.com/FACorreiaa/go-tripweaver/internal/observability/metrics"
)

// Service owns itinerary persistence: it fingerprints the document, delegates
// to the repository and reports save outcomes. It is the PersistenceClient
// the notebook sessions save through.
type Service struct {
	logger *zap.Logger
	repo   Repository
}

var _ notebook.PersistenceClient = (*Service)(nil)

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger.With(zap.String("service", "trips")),
		repo:   repo,
	}
}

// Save persists the itinerary for the given user. Requests without an
// authenticated user fail before any document processing happens.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, req *models.SaveItineraryRequest) (*models.SaveItineraryResult, error) {
	ctx, span := otel.Tracer("trips-service").Start(ctx, "SaveItinerary")
	defer span.End()

	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if req == nil || req.EditorData == nil {
		return nil, models.ErrValidation
	}

	contentHash := notebook.Hash(req.EditorData)

	result, err := s.repo.Save(ctx, userID, req, contentHash)
	if err != nil {
		metrics.Get().SavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return nil, err
	}

	outcome := "saved"
	switch {
	case result.Unchanged:
		outcome = "unchanged"
	case result.ConflictResolved:
		outcome = "conflict_resolved"
	}
	metrics.Get().SavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))

	s.logger.Debug("Itinerary saved",
		zap.String("itinerary_id", result.ID.String()),
		zap.Bool("unchanged", result.Unchanged),
		zap.Bool("conflict_resolved", result.ConflictResolved))

	return result, nil
}

// Load fetches a stored itinerary for the user.
func (s *Service) Load(ctx context.Context, userID, itineraryID uuid.UUID) (*models.StoredItinerary, error) {
	ctx, span := otel.Tracer("trips-service").Start(ctx, "LoadItinerary")
	defer span.End()

	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.Load(ctx, userID, itineraryID)
}

// List returns the user's saved itineraries, optionally filtered by title.
func (s *Service) List(ctx context.Context, userID uuid.UUID, search string) ([]models.ItinerarySummary, error) {
	ctx, span := otel.Tracer("trips-service").Start(ctx, "ListItineraries")
	defer span.End()

	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	return s.repo.List(ctx, userID, search)
}

// Delete removes one of the user's itineraries.
func (s *Service) Delete(ctx context.Context, userID, itineraryID uuid.UUID) error {
	ctx, span := otel.Tracer("trips-service").Start(ctx, "DeleteItinerary")
	defer span.End()

	if userID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	return s.repo.Delete(ctx, userID, itineraryID)
}
