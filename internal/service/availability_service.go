package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhq/onboarding-api/internal/engine"
	"github.com/tutorhq/onboarding-api/internal/models"
	"github.com/tutorhq/onboarding-api/pkg/config"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

type ruleReader interface {
	ListForOwnerInRange(ctx context.Context, ownerID string, ownerKind models.OwnerKind, fromDate, toDate time.Time) ([]models.AvailabilityRule, error)
	ListActiveOnDate(ctx context.Context, ownerID string, ownerKind models.OwnerKind, date time.Time) ([]models.AvailabilityRule, error)
}

type slotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// GenerateSlotsRequest describes a slot generation query.
type GenerateSlotsRequest struct {
	OwnerID      string           `json:"owner_id" validate:"required"`
	OwnerKind    models.OwnerKind `json:"owner_kind" validate:"required"`
	From         time.Time        `json:"from" validate:"required"`
	To           time.Time        `json:"to" validate:"required"`
	SlotDuration time.Duration    `json:"slot_duration"`
}

// AvailabilityService computes bookable slots and validates one-off slot
// candidates. All rule data is read through the repository; the computation
// itself is delegated to the engine package.
type AvailabilityService struct {
	rules     ruleReader
	cache     slotCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.SchedulingConfig
	now       func() time.Time
}

// NewAvailabilityService instantiates AvailabilityService. The cache and
// metrics dependencies are optional.
func NewAvailabilityService(rules ruleReader, cache slotCache, metrics *MetricsService, cfg config.SchedulingConfig, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		rules:     rules,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateSlots returns the chronologically ordered bookable slots for an
// owner inside [from, to]. An empty result is a valid outcome, not an error.
func (s *AvailabilityService) GenerateSlots(ctx context.Context, req GenerateSlotsRequest) ([]models.Slot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot query")
	}
	if !req.OwnerKind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown owner kind")
	}
	if !req.To.After(req.From) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "query range must end after it starts")
	}

	duration := req.SlotDuration
	if duration == 0 {
		duration = s.cfg.DefaultSlotDuration
	}
	if duration < s.cfg.MinSlotDuration || duration > s.cfg.MaxSlotDuration {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot duration out of bounds")
	}
	if s.cfg.MaxQueryRangeDays > 0 && req.To.Sub(req.From) > time.Duration(s.cfg.MaxQueryRangeDays)*24*time.Hour {
		return nil, appErrors.Clone(appErrors.ErrValidation, "query range too wide")
	}

	key := slotCacheKey(req.OwnerKind, req.OwnerID, req.From, req.To, duration)
	if s.cache != nil {
		var cached []models.Slot
		lookupStart := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		hit := err == nil
		s.metrics.RecordCacheOperation(hit, time.Since(lookupStart))
		if hit {
			return cached, nil
		}
		if err != appErrors.ErrCacheMiss {
			s.logger.Warn("slot cache lookup failed", zap.String("key", key), zap.Error(err))
		}
	}

	rules, err := s.rules.ListForOwnerInRange(ctx, req.OwnerID, req.OwnerKind, engine.DateOf(req.From), engine.DateOf(req.To))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability rules")
	}

	genStart := time.Now()
	slots := engine.GenerateSlots(rules, req.From, req.To, duration, s.now())
	s.metrics.ObserveSlotGeneration(time.Since(genStart), len(slots))

	if slots == nil {
		slots = []models.Slot{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, slots, s.cfg.SlotCacheTTL); err != nil {
			s.logger.Warn("slot cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return slots, nil
}

// ValidateOneOffSlot checks that a candidate one-off slot does not collide
// with any rule active on its date. Returns nil when the slot is clear.
func (s *AvailabilityService) ValidateOneOffSlot(ctx context.Context, ownerID string, ownerKind models.OwnerKind, start, end time.Time) error {
	if ownerID == "" || !ownerKind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid owner")
	}
	if !end.After(start) {
		return appErrors.Clone(appErrors.ErrValidation, "slot must end after it starts")
	}
	if !engine.DateOf(start).Equal(engine.DateOf(end.Add(-time.Nanosecond))) {
		return appErrors.Clone(appErrors.ErrValidation, "slot must not cross midnight")
	}

	rules, err := s.rules.ListActiveOnDate(ctx, ownerID, ownerKind, engine.DateOf(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rules for date")
	}

	if hit := engine.FindOverlap(rules, start, end); hit != nil {
		return appErrors.Clone(appErrors.ErrOverlappingSlot, fmt.Sprintf("slot overlaps %s rule %s", hit.Kind, hit.ID))
	}
	return nil
}

// InvalidateOwner drops every cached slot payload for an owner. Called by
// rule and booking mutations.
func (s *AvailabilityService) InvalidateOwner(ctx context.Context, ownerKind models.OwnerKind, ownerID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("slots:%s:%s:*", ownerKind, ownerID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("slot cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func slotCacheKey(kind models.OwnerKind, id string, from, to time.Time, duration time.Duration) string {
	return fmt.Sprintf("slots:%s:%s:%d:%d:%d", kind, id, from.Unix(), to.Unix(), int(duration.Minutes()))
}
