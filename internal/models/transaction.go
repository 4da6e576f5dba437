package models

import "time"

// PaymentMethod identifies how a transaction was paid
type PaymentMethod string

const (
	PaymentGooglePay PaymentMethod = "GOOGLE_PAY"
	PaymentDiamonds  PaymentMethod = "DIAMONDS"
)

// TransactionStatus is the lifecycle state of a transaction
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction records a currency-for-lives exchange or a real-money
// diamond purchase
type Transaction struct {
	ID            int64
	UserID        int64
	Amount        float64
	Description   string
	PaymentMethod PaymentMethod
	Status        TransactionStatus
	PaymentToken  string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}
