package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrPastDateRejected возвращается при попытке записи на уже прошедшее время
	ErrPastDateRejected = errors.New("create_booking: booking time has already passed")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrProfessionalNotFound возвращается, когда специалист не найден
	ErrProfessionalNotFound = errors.New("create_booking: professional not found")

	// ErrProfessionalNotCapable возвращается, когда специалист не оказывает услугу
	ErrProfessionalNotCapable = errors.New("create_booking: professional is not capable for service")

	// ErrInvalidDuration возвращается, когда длительность услуги не положительная
	ErrInvalidDuration = errors.New("create_booking: duration must be positive")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку или в рабочее окно
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNoLongerAvailable возвращается, когда слот уже занят (проиграна гонка)
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot is no longer available")

	// ErrTransientStore хранилище временно недоступно, запрос можно повторить
	ErrTransientStore = errors.New("create_booking: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
