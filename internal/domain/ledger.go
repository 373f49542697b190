package domain

import (
	"errors"
	"math"
	"time"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentPix          PaymentMethod = "pix"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentInvoice      PaymentMethod = "invoice"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// ErrUnknownPaymentMethod возвращается при неизвестном способе оплаты
var ErrUnknownPaymentMethod = errors.New("domain: unknown payment method")

// feePercent комиссия платёжного канала в процентах
var feePercent = map[PaymentMethod]float64{
	PaymentCash:         0,
	PaymentPix:          1,
	PaymentDebitCard:    2,
	PaymentCreditCard:   3,
	PaymentInvoice:      0,
	PaymentBankTransfer: 0,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := feePercent[method]; !ok {
		return "", ErrUnknownPaymentMethod
	}
	return method, nil
}

// FeePercent комиссия способа оплаты
func (m PaymentMethod) FeePercent() float64 {
	return feePercent[m]
}

// ApplyFee возвращает комиссию и итоговую сумму, округлённые до копеек
func (m PaymentMethod) ApplyFee(amount float64) (fee float64, total float64) {
	fee = roundCents(amount * m.FeePercent() / 100)
	return fee, roundCents(amount + fee)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// LedgerEntryType тип финансовой операции
type LedgerEntryType string

const LedgerIncome LedgerEntryType = "income"

// LedgerEntryStatus статус финансовой операции
type LedgerEntryStatus string

const LedgerPaid LedgerEntryStatus = "paid"

// LedgerTransaction запись в финансовом журнале
type LedgerTransaction struct {
	ID               string
	AppointmentID    *int64
	CustomerID       int64
	ProfessionalCode string
	Type             LedgerEntryType
	Category         string
	ServiceAmount    float64
	FeeAmount        float64
	Amount           float64
	PaymentMethod    PaymentMethod
	Status           LedgerEntryStatus
	DueDate          time.Time
	PaidDate         *time.Time
	CreatedAt        time.Time
}
