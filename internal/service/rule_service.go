package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorhq/onboarding-api/internal/engine"
	"github.com/tutorhq/onboarding-api/internal/models"
	appErrors "github.com/tutorhq/onboarding-api/pkg/errors"
)

type ruleRepository interface {
	ruleReader
	List(ctx context.Context, filter models.RuleFilter) ([]models.AvailabilityRule, int, error)
	FindByID(ctx context.Context, id string) (*models.AvailabilityRule, error)
	Create(ctx context.Context, rule *models.AvailabilityRule) error
	CreateBatch(ctx context.Context, rules []models.AvailabilityRule) error
	ReplaceStandard(ctx context.Context, ownerID string, ownerKind models.OwnerKind, rules []models.AvailabilityRule) error
	Update(ctx context.Context, rule *models.AvailabilityRule) error
	Delete(ctx context.Context, id string) error
}

type cacheInvalidator interface {
	InvalidateOwner(ctx context.Context, ownerKind models.OwnerKind, ownerID string)
}

// CreateOneOffSlotRequest adds a single-date availability window.
type CreateOneOffSlotRequest struct {
	OwnerID   string           `json:"owner_id" validate:"required"`
	OwnerKind models.OwnerKind `json:"owner_kind" validate:"required"`
	Start     time.Time        `json:"start" validate:"required"`
	End       time.Time        `json:"end" validate:"required"`
}

// CreateExclusionRequest blocks time for an owner across a date range.
// Multi-day requests expand into one rule per calendar day.
type CreateExclusionRequest struct {
	OwnerID     string           `json:"owner_id" validate:"required"`
	OwnerKind   models.OwnerKind `json:"owner_kind" validate:"required"`
	FromDate    time.Time        `json:"from_date" validate:"required"`
	ToDate      time.Time        `json:"to_date" validate:"required"`
	FullDay     bool             `json:"full_day"`
	StartMinute int              `json:"start_minute"`
	EndMinute   int              `json:"end_minute"`
}

// WeeklyRuleItem is one recurring weekly availability window.
type WeeklyRuleItem struct {
	DayOfWeek   int        `json:"day_of_week" validate:"min=0,max=6"`
	StartMinute int        `json:"start_minute" validate:"min=0,max=1439"`
	EndMinute   int        `json:"end_minute" validate:"min=1,max=1440"`
	ActiveFrom  time.Time  `json:"active_from" validate:"required"`
	ActiveUntil *time.Time `json:"active_until"`
}

// ReplaceStandardRulesRequest swaps an owner's full recurring weekly schedule.
type ReplaceStandardRulesRequest struct {
	OwnerID   string           `json:"owner_id" validate:"required"`
	OwnerKind models.OwnerKind `json:"owner_kind" validate:"required"`
	Items     []WeeklyRuleItem `json:"items" validate:"dive"`
}

// UpdateRuleRequest mutates a rule field by field. Nil fields are left as-is.
type UpdateRuleRequest struct {
	StartMinute *int       `json:"start_minute"`
	EndMinute   *int       `json:"end_minute"`
	ActiveFrom  *time.Time `json:"active_from"`
	ActiveUntil *time.Time `json:"active_until"`
	Exclusion   *bool      `json:"exclusion"`
}

// RuleService owns the availability rule lifecycle. The engine only reads
// rules; every create/update/delete flows through here.
type RuleService struct {
	repo      ruleRepository
	slots     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRuleService instantiates RuleService.
func NewRuleService(repo ruleRepository, slots cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *RuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{repo: repo, slots: slots, validator: validate, logger: logger}
}

// List returns an owner's rules with pagination metadata.
func (s *RuleService) List(ctx context.Context, filter models.RuleFilter) ([]models.AvailabilityRule, *models.Pagination, error) {
	if filter.OwnerID == "" || !filter.OwnerKind.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid owner")
	}
	rules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return rules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// CreateOneOffSlot validates the candidate window against every rule active
// on its date and persists a single AVAILABILITY_ONE_OFF rule when clear.
// Nothing is persisted on conflict.
func (s *RuleService) CreateOneOffSlot(ctx context.Context, req CreateOneOffSlotRequest) (*models.AvailabilityRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid one-off slot payload")
	}
	if !req.End.After(req.Start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot must end after it starts")
	}

	day := engine.DateOf(req.Start)
	startMinute := int(req.Start.UTC().Sub(day).Minutes())
	endMinute := int(req.End.UTC().Sub(day).Minutes())
	if endMinute > models.MinutesPerDay {
		return nil, appErrors.Clone(appErrors.ErrValidation, "slot must not cross midnight")
	}

	rules, err := s.repo.ListActiveOnDate(ctx, req.OwnerID, req.OwnerKind, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rules for date")
	}
	if hit := engine.FindOverlap(rules, req.Start, req.End); hit != nil {
		return nil, appErrors.Clone(appErrors.ErrOverlappingSlot, "one-off slot overlaps rule "+hit.ID)
	}

	rule := models.AvailabilityRule{
		OwnerID:     req.OwnerID,
		OwnerKind:   req.OwnerKind,
		Kind:        models.RuleAvailabilityOneOff,
		DayOfWeek:   day.Weekday(),
		StartMinute: startMinute,
		EndMinute:   endMinute,
		ActiveFrom:  day,
		ActiveUntil: &day,
	}
	if err := s.repo.Create(ctx, &rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create one-off rule")
	}

	s.invalidate(ctx, req.OwnerKind, req.OwnerID)
	return &rule, nil
}

// CreateExclusion persists one exclusion rule per calendar day in the range.
func (s *RuleService) CreateExclusion(ctx context.Context, req CreateExclusionRequest) ([]models.AvailabilityRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exclusion payload")
	}

	from := engine.DateOf(req.FromDate)
	to := engine.DateOf(req.ToDate)
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exclusion range must not be inverted")
	}

	kind := models.RuleExclusionTimeBased
	startMinute := req.StartMinute
	endMinute := req.EndMinute
	if req.FullDay {
		kind = models.RuleExclusionFullDay
		startMinute = models.FullDayStartMinute
		endMinute = models.FullDayEndMinute
	} else if startMinute < 0 || endMinute > models.MinutesPerDay || startMinute >= endMinute {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exclusion time range is invalid")
	}

	var rules []models.AvailabilityRule
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day
		rules = append(rules, models.AvailabilityRule{
			OwnerID:     req.OwnerID,
			OwnerKind:   req.OwnerKind,
			Kind:        kind,
			DayOfWeek:   date.Weekday(),
			StartMinute: startMinute,
			EndMinute:   endMinute,
			ActiveFrom:  date,
			ActiveUntil: &date,
		})
	}

	if err := s.repo.CreateBatch(ctx, rules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exclusion rules")
	}

	s.invalidate(ctx, req.OwnerKind, req.OwnerID)
	return rules, nil
}

// ReplaceStandardRules swaps out the owner's recurring weekly availability.
// One-off and exclusion rules are untouched.
func (s *RuleService) ReplaceStandardRules(ctx context.Context, req ReplaceStandardRulesRequest) ([]models.AvailabilityRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid standard rules payload")
	}

	rules := make([]models.AvailabilityRule, 0, len(req.Items))
	for _, item := range req.Items {
		if item.StartMinute >= item.EndMinute {
			return nil, appErrors.Clone(appErrors.ErrValidation, "rule time range is invalid")
		}
		if item.ActiveUntil != nil && engine.DateOf(*item.ActiveUntil).Before(engine.DateOf(item.ActiveFrom)) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "rule active window is inverted")
		}
		rules = append(rules, models.AvailabilityRule{
			OwnerID:     req.OwnerID,
			OwnerKind:   req.OwnerKind,
			Kind:        models.RuleAvailabilityStandard,
			DayOfWeek:   time.Weekday(item.DayOfWeek),
			StartMinute: item.StartMinute,
			EndMinute:   item.EndMinute,
			ActiveFrom:  engine.DateOf(item.ActiveFrom),
			ActiveUntil: item.ActiveUntil,
		})
	}

	if err := s.repo.ReplaceStandard(ctx, req.OwnerID, req.OwnerKind, rules); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace standard rules")
	}

	s.invalidate(ctx, req.OwnerKind, req.OwnerID)
	return rules, nil
}

// UpdateRule mutates a rule after an ownership check.
func (s *RuleService) UpdateRule(ctx context.Context, id, ownerID string, ownerKind models.OwnerKind, req UpdateRuleRequest) (*models.AvailabilityRule, error) {
	rule, err := s.loadOwned(ctx, id, ownerID, ownerKind)
	if err != nil {
		return nil, err
	}

	if req.StartMinute != nil {
		rule.StartMinute = *req.StartMinute
	}
	if req.EndMinute != nil {
		rule.EndMinute = *req.EndMinute
	}
	if req.ActiveFrom != nil {
		rule.ActiveFrom = engine.DateOf(*req.ActiveFrom)
	}
	if req.ActiveUntil != nil {
		until := engine.DateOf(*req.ActiveUntil)
		rule.ActiveUntil = &until
	}
	if req.Exclusion != nil {
		switch rule.Kind {
		case models.RuleAvailabilityOneOff, models.RuleExclusionTimeBased:
			if *req.Exclusion {
				rule.Kind = models.RuleExclusionTimeBased
			} else {
				rule.Kind = models.RuleAvailabilityOneOff
			}
		case models.RuleAvailabilityStandard, models.RuleExclusionFullDay:
			return nil, appErrors.Clone(appErrors.ErrValidation, "exclusion flag applies to single-date time-based rules only")
		}
	}

	if rule.StartMinute < 0 || rule.EndMinute > models.MinutesPerDay || rule.StartMinute >= rule.EndMinute {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rule time range is invalid")
	}
	if rule.ActiveUntil != nil && rule.ActiveUntil.Before(rule.ActiveFrom) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rule active window is inverted")
	}

	// Single-date rules keep day-of-week aligned with their date.
	if rule.ActiveUntil != nil && rule.ActiveUntil.Equal(rule.ActiveFrom) {
		rule.DayOfWeek = rule.ActiveFrom.Weekday()
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update rule")
	}

	s.invalidate(ctx, ownerKind, ownerID)
	return rule, nil
}

// DeleteRule removes a rule after an ownership check.
func (s *RuleService) DeleteRule(ctx context.Context, id, ownerID string, ownerKind models.OwnerKind) error {
	if _, err := s.loadOwned(ctx, id, ownerID, ownerKind); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete rule")
	}
	s.invalidate(ctx, ownerKind, ownerID)
	return nil
}

func (s *RuleService) loadOwned(ctx context.Context, id, ownerID string, ownerKind models.OwnerKind) (*models.AvailabilityRule, error) {
	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rule")
	}
	// Rules are exclusively owned; a mismatch looks like a missing record
	// rather than leaking another owner's data.
	if rule.OwnerID != ownerID || rule.OwnerKind != ownerKind {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rule not found")
	}
	return rule, nil
}

func (s *RuleService) invalidate(ctx context.Context, kind models.OwnerKind, id string) {
	if s.slots != nil {
		s.slots.InvalidateOwner(ctx, kind, id)
	}
}
