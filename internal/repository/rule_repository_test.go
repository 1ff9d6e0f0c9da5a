package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhq/onboarding-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func ruleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "owner_kind", "kind", "day_of_week", "start_minute", "end_minute", "active_from", "active_until", "created_at", "updated_at"})
}

func TestRuleRepositoryListForOwnerInRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	from := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 13)

	rows := ruleRows().
		AddRow("rule-1", "tutor-1", "TUTOR", "AVAILABILITY_STANDARD", 1, 540, 720, from.AddDate(0, -1, 0), nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, owner_kind, kind, day_of_week, start_minute, end_minute, active_from, active_until, created_at, updated_at FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND active_from <= $3 AND (active_until IS NULL OR active_until >= $4) ORDER BY day_of_week ASC, start_minute ASC")).
		WithArgs("tutor-1", models.OwnerKindTutor, to, from).
		WillReturnRows(rows)

	rules, err := repo.ListForOwnerInRange(context.Background(), "tutor-1", models.OwnerKindTutor, from, to)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, models.RuleAvailabilityStandard, rules[0].Kind)
	assert.Equal(t, time.Monday, rules[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryListActiveOnDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	date := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC) // Monday

	rows := ruleRows().
		AddRow("rule-1", "rev-1", "REVIEWER", "AVAILABILITY_STANDARD", 1, 540, 1020, date.AddDate(0, -1, 0), nil, time.Now(), time.Now()).
		AddRow("rule-2", "rev-1", "REVIEWER", "EXCLUSION_TIME_BASED", 1, 720, 780, date, date, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND day_of_week = $3 AND active_from <= $4 AND (active_until IS NULL OR active_until >= $4) ORDER BY start_minute ASC")).
		WithArgs("rev-1", models.OwnerKindReviewer, 1, date).
		WillReturnRows(rows)

	rules, err := repo.ListActiveOnDate(context.Background(), "rev-1", models.OwnerKindReviewer, date)
	require.NoError(t, err)
	assert.Len(t, rules, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WithArgs(sqlmock.AnyArg(), "tutor-1", "TUTOR", "AVAILABILITY_ONE_OFF", 1, 540, 660, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	active := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	rule := models.AvailabilityRule{
		OwnerID:     "tutor-1",
		OwnerKind:   models.OwnerKindTutor,
		Kind:        models.RuleAvailabilityOneOff,
		DayOfWeek:   time.Monday,
		StartMinute: 540,
		EndMinute:   660,
		ActiveFrom:  active,
		ActiveUntil: &active,
	}

	require.NoError(t, repo.Create(context.Background(), &rule))
	assert.NotEmpty(t, rule.ID)
	assert.False(t, rule.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryCreateBatchRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	active := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	next := active.AddDate(0, 0, 1)
	rules := []models.AvailabilityRule{
		{OwnerID: "tutor-1", OwnerKind: models.OwnerKindTutor, Kind: models.RuleExclusionFullDay, DayOfWeek: time.Monday, StartMinute: 0, EndMinute: models.FullDayEndMinute, ActiveFrom: active, ActiveUntil: &active},
		{OwnerID: "tutor-1", OwnerKind: models.OwnerKindTutor, Kind: models.RuleExclusionFullDay, DayOfWeek: time.Tuesday, StartMinute: 0, EndMinute: models.FullDayEndMinute, ActiveFrom: next, ActiveUntil: &next},
	}

	require.Error(t, repo.CreateBatch(context.Background(), rules))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryReplaceStandard(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE owner_id = $1 AND owner_kind = $2 AND kind = $3")).
		WithArgs("rev-1", models.OwnerKindReviewer, models.RuleAvailabilityStandard).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_rules")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rules := []models.AvailabilityRule{
		{OwnerID: "rev-1", OwnerKind: models.OwnerKindReviewer, Kind: models.RuleAvailabilityStandard, DayOfWeek: time.Wednesday, StartMinute: 540, EndMinute: 1020, ActiveFrom: time.Now().UTC()},
	}

	require.NoError(t, repo.ReplaceStandard(context.Background(), "rev-1", models.OwnerKindReviewer, rules))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRuleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_rules WHERE id = $1")).
		WithArgs("rule-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "rule-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
