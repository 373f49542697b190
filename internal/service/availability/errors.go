package availability

import "errors"

var (
	// ErrInvalidDuration длительность услуги не положительная
	ErrInvalidDuration = errors.New("availability: duration must be positive")

	// ErrInternal ошибка чтения расписания или записей
	ErrInternal = errors.New("availability: internal error")
)

var (
	// ErrOutsideWorkingHours время начала не совпадает ни с одним слотом специалиста
	ErrOutsideWorkingHours = errors.New("availability: start time is not a valid slot for the professional")

	// ErrSlotTaken у специалиста уже есть пересекающаяся запись
	ErrSlotTaken = errors.New("availability: slot overlaps an existing appointment")
)
