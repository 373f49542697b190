package ledger

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда финансовая запись не найдена
	ErrTransactionNotFound = errors.New("ledger.repository: transaction not found")

	// ErrDuplicateAppointment возвращается, когда запись уже оплачена (уникальность appointment_id)
	ErrDuplicateAppointment = errors.New("ledger.repository: transaction for appointment already exists")

	ErrBuildQuery = errors.New("ledger.repository: failed to build query")
	ErrExecQuery  = errors.New("ledger.repository: failed to execute query")
	ErrScanRow    = errors.New("ledger.repository: failed to scan row")
)
