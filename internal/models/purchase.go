package models

import "time"

// Purchase statuses mirror the Stripe checkout session payment status: a
// purchase is only "completed" when Stripe says the session was paid.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
)

// Purchase is the durable record of a checkout session, created exactly once
// per session by reconciliation. StripeSessionID carries a unique index so
// concurrent reconcile calls (webhook vs. confirmation page) cannot insert
// the same session twice.
type Purchase struct {
	ID                    string    `json:"id" gorm:"primaryKey"`
	UserEmail             string    `json:"user_email" gorm:"not null;index"`
	UserName              string    `json:"user_name"`
	PackageName           string    `json:"package_name" gorm:"not null"`
	Amount                int64     `json:"amount" gorm:"not null"`
	Currency              string    `json:"currency" gorm:"not null"`
	Status                string    `json:"status" gorm:"not null"`
	StripeSessionID       string    `json:"stripe_session_id" gorm:"uniqueIndex;not null"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
