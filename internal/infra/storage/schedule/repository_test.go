package schedule

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetBusinessHours(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT day_of_week, open_time, close_time, is_open FROM business_hours WHERE day_of_week = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "open_time", "close_time", "is_open"}).
			AddRow(1, "09:00:00", "18:00:00", true))

	bh, err := repo.GetBusinessHours(context.Background(), time.Monday)

	require.NoError(t, err)
	window, ok := bh.Window()
	require.True(t, ok)
	assert.Equal(t, "09:00", window.Start.String())
	assert.Equal(t, "18:00", window.End.String())
}

func TestRepository_GetBusinessHours_ClosedDayWithNullTimes(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM business_hours`).
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "open_time", "close_time", "is_open"}).
			AddRow(0, nil, nil, false))

	bh, err := repo.GetBusinessHours(context.Background(), time.Sunday)

	require.NoError(t, err)
	assert.Nil(t, bh.OpenTime)
	_, ok := bh.Window()
	assert.False(t, ok)
}

func TestRepository_GetBusinessHours_Missing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM business_hours`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBusinessHours(context.Background(), time.Sunday)
	assert.ErrorIs(t, err, ErrBusinessHoursNotFound)
}

func TestRepository_ListActiveByDay(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM professional_schedules WHERE day_of_week = \$1 AND is_active = \$2 AND professional_id IN \(\$3\) ORDER BY professional_id ASC, start_time ASC`).
		WithArgs(1, true, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "professional_id", "day_of_week", "start_time", "end_time", "is_active"}).
			AddRow(int64(1), int64(7), 1, "08:00:00", "12:00:00", true).
			AddRow(int64(2), int64(7), 1, "14:00:00", "18:00:00", true))

	rows, err := repo.ListActiveByDay(context.Background(), time.Monday, []int64{7})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "14:00", rows[1].StartTime.String())
	assert.Equal(t, time.Monday, rows[1].DayOfWeek)
}

func TestRepository_ListScheduledProfessionals(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT DISTINCT professional_id FROM professional_schedules WHERE is_active = \$1 AND professional_id IN \(\$2,\$3\)`).
		WithArgs(true, int64(7), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"professional_id"}).AddRow(int64(8)))

	scheduled, err := repo.ListScheduledProfessionals(context.Background(), []int64{7, 8})

	require.NoError(t, err)
	assert.False(t, scheduled[7])
	assert.True(t, scheduled[8])
}
