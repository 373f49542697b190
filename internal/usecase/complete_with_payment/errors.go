package complete_with_payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("complete_with_payment: invalid input data")

	// ErrInvalidPaymentMethod возвращается при неизвестном способе оплаты
	ErrInvalidPaymentMethod = errors.New("complete_with_payment: unknown payment method")

	// ErrInvalidAmount возвращается при неположительной сумме
	ErrInvalidAmount = errors.New("complete_with_payment: amount must be positive")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("complete_with_payment: appointment not found")

	// ErrInvalidTransition возвращается при попытке оплатить отменённую запись
	ErrInvalidTransition = errors.New("complete_with_payment: canceled appointment cannot be completed")

	// ErrCustomerNotFound возвращается, когда клиент с телефоном записи не найден
	ErrCustomerNotFound = errors.New("complete_with_payment: customer not found")

	// ErrLedgerWriteFailed возвращается, когда финансовая запись не сохранена; запись клиента не тронута
	ErrLedgerWriteFailed = errors.New("complete_with_payment: ledger write failed")

	// ErrPartialFailure финансовая запись сохранена, но запись клиента не удалена
	ErrPartialFailure = errors.New("complete_with_payment: payment registered but appointment not removed")

	// ErrTransientStore хранилище временно недоступно, запрос можно повторить
	ErrTransientStore = errors.New("complete_with_payment: store temporarily unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_with_payment: internal error")
)

// PartialFailureError финансовая запись создана, удалить запись клиента не удалось
// Повторный вызов для той же записи найдёт существующую финансовую запись и завершит удаление
type PartialFailureError struct {
	LedgerEntryID string
	AppointmentID int64
	Cause         error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: ledger entry %s exists, appointment %d still present: %v",
		ErrPartialFailure.Error(), e.LedgerEntryID, e.AppointmentID, e.Cause)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrPartialFailure)
func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}
