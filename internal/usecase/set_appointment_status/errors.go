package set_appointment_status

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("set_appointment_status: invalid input data")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = errors.New("set_appointment_status: unknown status")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("set_appointment_status: appointment not found")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("set_appointment_status: invalid status transition")

	// ErrStatusChanged возвращается, когда статус записи изменился конкурентно
	ErrStatusChanged = errors.New("set_appointment_status: status changed concurrently")

	// ErrTransientStore хранилище временно недоступно, запрос можно повторить
	ErrTransientStore = errors.New("set_appointment_status: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("set_appointment_status: internal error")
)
