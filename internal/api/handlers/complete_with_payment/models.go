package complete_with_payment

import (
	"github.com/m04kA/SMC-AgendaService/internal/domain"
	completeWithPayment "github.com/m04kA/SMC-AgendaService/internal/usecase/complete_with_payment"
)

// CompleteRequest HTTP request model
type CompleteRequest struct {
	Amount        *float64 `json:"amount,omitempty"` // По умолчанию цена услуги
	PaymentMethod string   `json:"paymentMethod"`
}

// CompleteResponse HTTP response model
type CompleteResponse struct {
	LedgerEntryID      string  `json:"ledgerEntryId"`
	AppointmentID      int64   `json:"appointmentId"`
	AppointmentDeleted bool    `json:"appointmentDeleted"`
	Reconciled         bool    `json:"reconciled"`
	ServiceAmount      float64 `json:"serviceAmount"`
	FeeAmount          float64 `json:"feeAmount"`
	Amount             float64 `json:"amount"`
	PaymentMethod      string  `json:"paymentMethod"`
	DueDate            string  `json:"dueDate"`
	PaidDate           string  `json:"paidDate"`
}

// PartialFailureResponse тело ответа 207: финансовая запись создана, запись клиента осталась
type PartialFailureResponse struct {
	Warning            string `json:"warning"`
	LedgerEntryID      string `json:"ledgerEntryId"`
	AppointmentID      int64  `json:"appointmentId"`
	AppointmentDeleted bool   `json:"appointmentDeleted"`
	Cause              string `json:"cause"`
}

func (r *CompleteRequest) ToUseCaseRequest(appointmentID int64) *completeWithPayment.Request {
	return &completeWithPayment.Request{
		AppointmentID: appointmentID,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
	}
}

func FromUseCaseResponse(resp *completeWithPayment.Response) *CompleteResponse {
	return &CompleteResponse{
		LedgerEntryID:      resp.LedgerEntryID,
		AppointmentID:      resp.AppointmentID,
		AppointmentDeleted: resp.AppointmentDeleted,
		Reconciled:         resp.Reconciled,
		ServiceAmount:      resp.ServiceAmount,
		FeeAmount:          resp.FeeAmount,
		Amount:             resp.Amount,
		PaymentMethod:      string(resp.PaymentMethod),
		DueDate:            resp.DueDate.Format(domain.DateFormat),
		PaidDate:           resp.PaidDate.Format(domain.DateFormat),
	}
}

func FromPartialFailure(pf *completeWithPayment.PartialFailureError) *PartialFailureResponse {
	cause := ""
	if pf.Cause != nil {
		cause = pf.Cause.Error()
	}
	return &PartialFailureResponse{
		Warning:            msgPartialFailure,
		LedgerEntryID:      pf.LedgerEntryID,
		AppointmentID:      pf.AppointmentID,
		AppointmentDeleted: false,
		Cause:              cause,
	}
}
