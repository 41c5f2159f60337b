package compose

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/ai"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/directions"
	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/notebook"
	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
	"github.com/FACorreiaa/go-tripweaver/internal/observability/metrics"
)

const maxTripDays = 30

func metricOutcome(outcome string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("outcome", outcome))
}

// Enricher reconciles parsed places with external provider data.
type Enricher interface {
	Enrich(ctx context.Context, it *models.StructuredItinerary) *models.StructuredItinerary
}

// GenerateRequest describes a trip to plan.
type GenerateRequest struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	TotalDays   int      `json:"totalDays"`
	Interests   []string `json:"interests,omitempty"`
}

// Validate rejects malformed generation input.
func (r *GenerateRequest) Validate() error {
	if r.Destination == "" {
		return fmt.Errorf("%w: destination is required", models.ErrValidation)
	}
	if r.TotalDays < 1 || r.TotalDays > maxTripDays {
		return fmt.Errorf("%w: totalDays must be between 1 and %d", models.ErrValidation, maxTripDays)
	}
	if _, err := time.Parse(dateLayout, r.StartDate); err != nil {
		return fmt.Errorf("%w: startDate must be an ISO date", models.ErrValidation)
	}
	return nil
}

// GeneratedItinerary is the full result of a generation run: the structured
// view, the notebook document derived from it, and the driving routes.
type GeneratedItinerary struct {
	Itinerary  *models.StructuredItinerary `json:"itinerary"`
	EditorData *models.BlockDocument       `json:"editorData"`
	Directions *models.RouteData           `json:"directions,omitempty"`
	Metadata   *models.TripMetadata        `json:"metadata"`
}

// Service runs the generation pipeline: completion, parsing, enrichment,
// directions, document conversion.
type Service struct {
	completer ai.Completer
	enricher  Enricher
	routes    directions.Calculator
	logger    *zap.Logger
}

func NewService(completer ai.Completer, enricher Enricher, routes directions.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		completer: completer,
		enricher:  enricher,
		routes:    routes,
		logger:    logger,
	}
}

// Generate plans a trip end to end. Enrichment and directions failures are
// localized: a generation only fails when the completion itself is unusable.
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*GeneratedItinerary, error) {
	ctx, span := otel.Tracer("ComposeService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
		attribute.Int("trip.days", req.TotalDays),
	))
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	started := time.Now()
	rawText, err := s.completer.Complete(ctx, SystemPrompt(), BuildUserPrompt(req.Destination, req.StartDate, req.TotalDays, req.Interests))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		metrics.Get().GenerationsTotal.Add(ctx, 1, metricOutcome("error"))
		return nil, fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}

	itinerary := Parse(rawText, req.Destination, req.StartDate, req.TotalDays)

	if s.enricher != nil {
		itinerary = s.enricher.Enrich(ctx, itinerary)
	}

	var routeData *models.RouteData
	if s.routes != nil {
		routeData, err = directions.BuildRouteData(ctx, s.routes, itinerary, s.logger)
		if err != nil {
			// Routes are an overlay; the itinerary is still fully usable.
			s.logger.Warn("Directions calculation failed", zap.Error(err))
			routeData = nil
		}
	}

	metrics.Get().GenerationsTotal.Add(ctx, 1, metricOutcome("ok"))
	metrics.Get().GenerationDuration.Record(ctx, time.Since(started).Seconds())
	span.SetStatus(codes.Ok, "itinerary generated")

	s.logger.Info("Itinerary generated",
		zap.String("destination", req.Destination),
		zap.Int("days", len(itinerary.Days)),
		zap.String("model", s.completer.ModelName()),
		zap.Duration("elapsed", time.Since(started)))

	return &GeneratedItinerary{
		Itinerary:  itinerary,
		EditorData: notebook.ToDocument(itinerary),
		Directions: routeData,
		Metadata: &models.TripMetadata{
			Destination: req.Destination,
			StartDate:   req.StartDate,
			TotalDays:   req.TotalDays,
		},
	}, nil
}
