package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/itinerary"
	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/models/response_models"
	"tripmate/pkg/llm"
)

// ModelCaller sends a prompt to the generative model and returns its text.
type ModelCaller interface {
	CallModel(ctx context.Context, prompt string) (string, error)
}

// ResponseParser turns raw model text into an itinerary.
type ResponseParser interface {
	Parse(raw string, trip request_models.TripRequest) (db_models.Itinerary, itinerary.Report, error)
}

type modelNamer interface {
	SelectedModel() string
}

// ErrModelUnavailable is the fallback reason when no model is configured.
var ErrModelUnavailable = errors.New("itinerary model not configured")

type PipelineState string

const (
	StateBuilding   PipelineState = "building"
	StateCalling    PipelineState = "calling"
	StateParsing    PipelineState = "parsing"
	StateSucceeded  PipelineState = "succeeded"
	StateFallenBack PipelineState = "fallen_back"
)

type ItineraryServiceInterface interface {
	// GenerateItinerary only fails for an invalid request. Model and parse
	// failures produce a fallback itinerary with UsedFallback set.
	GenerateItinerary(ctx context.Context, req request_models.TripRequest) (response_models.ItineraryResult, error)
	// RegenerateItinerary folds excludedPlaces into req and runs a fresh
	// generation.
	RegenerateItinerary(ctx context.Context, req request_models.TripRequest, excludedPlaces []string) (response_models.ItineraryResult, error)
	ModelAvailable() bool
}

type ItineraryService struct {
	model  ModelCaller
	parser ResponseParser
	log    *zap.Logger
}

// NewItineraryService wires the pipeline. A nil model makes every run use
// the fallback template.
func NewItineraryService(model ModelCaller, parser ResponseParser, log *zap.Logger) ItineraryServiceInterface {
	if parser == nil {
		parser = itinerary.Parser{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ItineraryService{
		model:  model,
		parser: parser,
		log:    log.Named("itinerary"),
	}
}

func (s *ItineraryService) ModelAvailable() bool {
	return s.model != nil
}

func (s *ItineraryService) GenerateItinerary(ctx context.Context, req request_models.TripRequest) (response_models.ItineraryResult, error) {
	if err := req.Validate(); err != nil {
		return response_models.ItineraryResult{}, err
	}
	return s.run(ctx, req), nil
}

func (s *ItineraryService) RegenerateItinerary(ctx context.Context, req request_models.TripRequest, excludedPlaces []string) (response_models.ItineraryResult, error) {
	req.ExcludedPlaces = mergeExcluded(req.ExcludedPlaces, excludedPlaces)
	return s.GenerateItinerary(ctx, req)
}

func (s *ItineraryService) run(ctx context.Context, req request_models.TripRequest) (result response_models.ItineraryResult) {
	start := time.Now()
	state := StateBuilding
	log := s.log.With(zap.String("destination", req.Destination), zap.Int("days", req.LengthInDays()))

	defer func() {
		if r := recover(); r != nil {
			log.Error("itinerary pipeline panicked", zap.String("state", string(state)), zap.Any("panic", r))
			result = s.fallback(req, fmt.Errorf("pipeline panic in %s: %v", state, r))
		}
	}()

	if s.model == nil {
		return s.fallback(req, ErrModelUnavailable)
	}

	prompt := itinerary.BuildPrompt(req)
	if len(prompt) > itinerary.MaxPromptChars {
		log.Warn("prompt exceeds size threshold",
			zap.Int("chars", len(prompt)),
			zap.Int("threshold", itinerary.MaxPromptChars))
	}

	state = StateCalling
	text, err := s.model.CallModel(ctx, prompt)
	if err != nil {
		var cfgErr *llm.ConfigurationError
		if errors.As(err, &cfgErr) {
			log.Error("itinerary model unavailable", zap.Error(err))
		} else {
			log.Warn("model call failed", zap.Error(err))
		}
		state = StateFallenBack
		return s.fallback(req, err)
	}

	state = StateParsing
	it, report, err := s.parser.Parse(text, req)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		var perr *itinerary.ParseError
		if errors.As(err, &perr) {
			fields = append(fields, zap.String("stage", perr.Stage), zap.String("snippet", perr.Snippet))
		}
		log.Warn("model response unusable", fields...)
		state = StateFallenBack
		return s.fallback(req, err)
	}
	if report.Repaired() {
		log.Info("model response repaired",
			zap.Bool("truncated", report.Truncated),
			zap.Int("dropped_bytes", report.DroppedBytes),
			zap.Bool("closed_structures", report.Closed),
			zap.Ints("dropped_days", report.DroppedDays))
	}

	state = StateSucceeded
	result = response_models.ItineraryResult{
		Itinerary: itinerary.Sanitize(it),
		Model:     s.modelName(),
	}
	log.Info("itinerary generated",
		zap.String("model", result.Model),
		zap.Int("day_count", len(result.Itinerary.Days)),
		zap.Duration("took", time.Since(start)))
	return result
}

func (s *ItineraryService) fallback(req request_models.TripRequest, cause error) response_models.ItineraryResult {
	s.log.Info("using fallback itinerary",
		zap.String("destination", req.Destination),
		zap.NamedError("cause", cause))
	return response_models.ItineraryResult{
		Itinerary:    itinerary.Sanitize(itinerary.Fallback(req)),
		UsedFallback: true,
		ErrorDetail:  cause.Error(),
	}
}

func (s *ItineraryService) modelName() string {
	if n, ok := s.model.(modelNamer); ok {
		return n.SelectedModel()
	}
	return ""
}

// mergeExcluded appends extra to existing, dropping blanks and
// case-insensitive duplicates while keeping first-seen order.
func mergeExcluded(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, list := range [][]string{existing, extra} {
		for _, place := range list {
			p := strings.TrimSpace(place)
			key := strings.ToLower(p)
			if p == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}
