package plan

import "time"

type Plan struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	PriceCents     int64     `db:"price_cents" json:"price_cents"`
	Currency       string    `db:"currency" json:"currency"`
	DurationMonths int       `db:"duration_months" json:"duration_months"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreatePlanRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents" binding:"required,gt=0"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
}

type UpdatePlanRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"price_cents" binding:"required,gt=0"`
	DurationMonths int    `json:"duration_months" binding:"required,min=1"`
	Active         *bool  `json:"active" binding:"required"`
}
