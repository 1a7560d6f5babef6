package payment

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

type Payment struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	PlanID      *int      `db:"plan_id" json:"plan_id,omitempty"`
	AmountCents int       `db:"amount_cents" json:"amount_cents"`
	Currency    string    `db:"currency" json:"currency"`
	GatewayRef  *string   `db:"gateway_ref" json:"gateway_ref,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type PaymentWithDetails struct {
	Payment
	UserName  string  `db:"user_name" json:"user_name"`
	UserEmail string  `db:"user_email" json:"user_email"`
	PlanName  *string `db:"plan_name" json:"plan_name,omitempty"`
}

type PurchasePlanRequest struct {
	PlanID    int    `json:"plan_id" binding:"required"`
	CardToken string `json:"card_token" binding:"required"`
}
