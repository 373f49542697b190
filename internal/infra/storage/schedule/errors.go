package schedule

import "errors"

var (
	// ErrBusinessHoursNotFound возвращается, когда для дня недели нет строки часов работы
	ErrBusinessHoursNotFound = errors.New("schedule.repository: business hours not found")

	ErrBuildQuery = errors.New("schedule.repository: failed to build query")
	ErrExecQuery  = errors.New("schedule.repository: failed to execute query")
	ErrScanRow    = errors.New("schedule.repository: failed to scan row")
)
