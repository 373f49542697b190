package domain

// Значения по умолчанию
const (
	DefaultSlotGranularityMinutes = 30
	DefaultDurationMinutes        = 30
)

// Ограничения бизнес-валидации
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 24 * 60
	MaxCustomerNameLen = 200
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
