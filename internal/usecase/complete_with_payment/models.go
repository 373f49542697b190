package complete_with_payment

import (
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// Settings параметры use case из конфигурации
type Settings struct {
	Location *time.Location // Часовой пояс организации для дат платежа
}

// Request модель запроса на завершение записи с оплатой
type Request struct {
	AppointmentID int64
	Amount        *float64 // Сумма услуги; по умолчанию цена услуги
	PaymentMethod string
}

// Response результат архивации
type Response struct {
	LedgerEntryID      string
	AppointmentID      int64
	AppointmentDeleted bool
	// Reconciled финансовая запись уже существовала (повтор после частичного сбоя)
	Reconciled bool

	ServiceAmount float64
	FeeAmount     float64
	Amount        float64
	PaymentMethod domain.PaymentMethod
	DueDate       time.Time
	PaidDate      time.Time
}
