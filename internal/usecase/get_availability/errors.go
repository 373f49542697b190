package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInvalidDuration возвращается, когда длительность не положительная
	ErrInvalidDuration = errors.New("get_availability: duration must be positive")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("get_availability: professional not found")

	// ErrTransientStore хранилище временно недоступно, запрос можно повторить
	ErrTransientStore = errors.New("get_availability: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
