package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorhq/onboarding-api/internal/models"
)

const ruleColumns = "id, owner_id, owner_kind, kind, day_of_week, start_minute, end_minute, active_from, active_until, created_at, updated_at"

// RuleRepository provides persistence for availability rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// ListForOwnerInRange returns the owner's rules whose active window overlaps
// [fromDate, toDate]. A NULL active_until is treated as open-ended.
func (r *RuleRepository) ListForOwnerInRange(ctx context.Context, ownerID string, ownerKind models.OwnerKind, fromDate, toDate time.Time) ([]models.AvailabilityRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND active_from <= $3 AND (active_until IS NULL OR active_until >= $4) ORDER BY day_of_week ASC, start_minute ASC`, ruleColumns)
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, ownerID, ownerKind, toDate, fromDate); err != nil {
		return nil, fmt.Errorf("list rules in range: %w", err)
	}
	return rules, nil
}

// ListActiveOnDate returns the owner's rules of every kind whose day-of-week
// and active window include the given date.
func (r *RuleRepository) ListActiveOnDate(ctx context.Context, ownerID string, ownerKind models.OwnerKind, date time.Time) ([]models.AvailabilityRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND day_of_week = $3 AND active_from <= $4 AND (active_until IS NULL OR active_until >= $4) ORDER BY start_minute ASC`, ruleColumns)
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, ownerID, ownerKind, int(date.Weekday()), date); err != nil {
		return nil, fmt.Errorf("list rules active on date: %w", err)
	}
	return rules, nil
}

// List returns an owner's rules with optional kind filtering and pagination.
func (r *RuleRepository) List(ctx context.Context, filter models.RuleFilter) ([]models.AvailabilityRule, int, error) {
	base := "FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2"
	args := []interface{}{filter.OwnerID, filter.OwnerKind}

	if filter.Kind != nil {
		base += fmt.Sprintf(" AND kind = $%d", len(args)+1)
		args = append(args, *filter.Kind)
	}
	if filter.FromDate != nil {
		base += fmt.Sprintf(" AND (active_until IS NULL OR active_until >= $%d)", len(args)+1)
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		base += fmt.Sprintf(" AND active_from <= $%d", len(args)+1)
		args = append(args, *filter.ToDate)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY day_of_week ASC, start_minute ASC LIMIT %d OFFSET %d", ruleColumns, base, size, offset)
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count rules: %w", err)
	}

	return rules, total, nil
}

// FindByID loads a rule by id.
func (r *RuleRepository) FindByID(ctx context.Context, id string) (*models.AvailabilityRule, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_rules WHERE id = $1`, ruleColumns)
	var rule models.AvailabilityRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

const insertRuleQuery = `INSERT INTO availability_rules (id, owner_id, owner_kind, kind, day_of_week, start_minute, end_minute, active_from, active_until, created_at, updated_at) VALUES (:id, :owner_id, :owner_kind, :kind, :day_of_week, :start_minute, :end_minute, :active_from, :active_until, :created_at, :updated_at)`

// Create stores a new rule record.
func (r *RuleRepository) Create(ctx context.Context, rule *models.AvailabilityRule) error {
	stampRule(rule)
	if _, err := r.db.NamedExecContext(ctx, insertRuleQuery, rule); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

// CreateBatch inserts many rules within a transaction. Used by range-expanded
// exclusion commands that persist one rule per calendar day.
func (r *RuleRepository) CreateBatch(ctx context.Context, rules []models.AvailabilityRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create rules: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.insertRules(ctx, tx, rules); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create rules: %w", err)
	}
	return nil
}

// ReplaceStandard swaps out an owner's recurring weekly availability in one
// transaction. One-off and exclusion rules are left untouched.
func (r *RuleRepository) ReplaceStandard(ctx context.Context, ownerID string, ownerKind models.OwnerKind, rules []models.AvailabilityRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace standard rules: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND kind = $3`, ownerID, ownerKind, models.RuleAvailabilityStandard); err != nil {
		err = fmt.Errorf("delete standard rules: %w", err)
		return err
	}

	if err = r.insertRules(ctx, tx, rules); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standard rules: %w", err)
	}
	return nil
}

func (r *RuleRepository) insertRules(ctx context.Context, exec sqlx.ExtContext, rules []models.AvailabilityRule) error {
	for i := range rules {
		payload := rules[i]
		stampRule(&payload)
		if _, err := sqlx.NamedExecContext(ctx, exec, insertRuleQuery, &payload); err != nil {
			return fmt.Errorf("insert rule: %w", err)
		}
		rules[i] = payload
	}
	return nil
}

// Update modifies a rule's time range, active window and kind.
func (r *RuleRepository) Update(ctx context.Context, rule *models.AvailabilityRule) error {
	rule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE availability_rules SET kind = :kind, day_of_week = :day_of_week, start_minute = :start_minute, end_minute = :end_minute, active_from = :active_from, active_until = :active_until, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	return nil
}

// Delete removes a rule by id.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availability_rules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return nil
}

func stampRule(rule *models.AvailabilityRule) {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
}
