package entity

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentPartial PaymentStatus = "Partial"
	PaymentFailed  PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentPartial, PaymentFailed:
		return true
	}
	return false
}

// Payment is one row of the payments ledger. Amount is in whole currency units.
type Payment struct {
	ID           string        `json:"id"`
	StudentName  string        `json:"student"`
	StudentEmail string        `json:"email"`
	CourseTitle  string        `json:"course"`
	Amount       int64         `json:"amount"`
	Currency     string        `json:"currency"`
	PaidOn       time.Time     `json:"date"`
	Status       PaymentStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// PaymentFilter holds exact-match filters; zero values do not filter.
type PaymentFilter struct {
	Course string
	Status PaymentStatus
	Date   *time.Time
}

// PaymentTotals aggregates the ledger per status.
type PaymentTotals struct {
	Status PaymentStatus `json:"status"`
	Count  int64         `json:"count"`
	Amount int64         `json:"amount"`
}
