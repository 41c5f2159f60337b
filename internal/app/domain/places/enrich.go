package places

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
	"github.com/FACorreiaa/go-tripweaver/internal/observability/metrics"
)

// DefaultEnrichDistanceKm gates whether provider coordinates replace the
// LLM-generated ones. Beyond it the match is likely a different place, but
// the descriptive metadata is still worth keeping.
const DefaultEnrichDistanceKm = 150.0

const maxConcurrentLookups = 8

func lookupOutcome(outcome string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("outcome", outcome))
}

// Enricher reconciles parsed places with provider data.
type Enricher struct {
	provider   Provider
	distanceKm float64
	logger     *zap.Logger
}

func NewEnricher(provider Provider, distanceKm float64, logger *zap.Logger) *Enricher {
	if distanceKm <= 0 {
		distanceKm = DefaultEnrichDistanceKm
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		provider:   provider,
		distanceKm: distanceKm,
		logger:     logger,
	}
}

// Enrich looks every place up concurrently and merges the results back in.
// Lookups are independent: a failed or erroring lookup only affects its own
// place. Results are collected positionally, so the returned itinerary
// preserves the original day and place ordering regardless of completion
// order.
func (e *Enricher) Enrich(ctx context.Context, it *models.StructuredItinerary) *models.StructuredItinerary {
	if it == nil || e.provider == nil {
		return it
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentLookups)

	for dayIdx := range it.Days {
		day := &it.Days[dayIdx]
		for placeIdx := range day.Places {
			place := &day.Places[placeIdx]
			region := day.Region
			group.Go(func() error {
				e.enrichPlace(groupCtx, place, region)
				return nil
			})
		}
	}

	// Workers never return errors; Wait only serves as the fan-in barrier.
	_ = group.Wait()
	return it
}

func (e *Enricher) enrichPlace(ctx context.Context, place *models.Place, region string) {
	query := place.Name
	if region != "" {
		query = fmt.Sprintf("%s, %s", place.Name, region)
	}

	place.Status = models.PlaceStatusLoading
	details, err := e.provider.FindPlaceByName(ctx, query)
	switch {
	case errors.Is(err, ErrPlaceNotFound):
		metrics.Get().PlaceLookupsTotal.Add(ctx, 1, lookupOutcome("not_found"))
		place.Status = models.PlaceStatusFreeText
		return
	case err != nil:
		e.logger.Warn("Place lookup failed",
			zap.String("query", query),
			zap.Error(err))
		metrics.Get().PlaceLookupsTotal.Add(ctx, 1, lookupOutcome("error"))
		place.Status = models.PlaceStatusError
		return
	}
	metrics.Get().PlaceLookupsTotal.Add(ctx, 1, lookupOutcome("found"))

	distance := HaversineKm(place.Latitude, place.Longitude, details.Latitude, details.Longitude)
	if distance <= e.distanceKm {
		place.Latitude = details.Latitude
		place.Longitude = details.Longitude
	} else {
		e.logger.Debug("Lookup result too far from generated coordinates, keeping originals",
			zap.String("query", query),
			zap.Float64("distance_km", distance))
	}

	place.PlaceID = details.PlaceID
	place.Address = details.Address
	place.Rating = details.Rating
	place.PhotoReferences = details.PhotoReferences
	if place.Description == "" {
		place.Description = details.Description
	}
	place.ThumbnailURL = details.ThumbnailURL
	place.Status = models.PlaceStatusFound
}
