package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Vehicle struct {
	ID           string      `json:"id" db:"id"`
	ClientID     null.String `json:"client_id" db:"client_id"`
	Type         string      `json:"type" db:"type"`
	ModelYear    string      `json:"model_year" db:"model_year"`
	Plate        string      `json:"plate" db:"plate"`
	DriverName   null.String `json:"driver_name" db:"driver_name"`
	KmCurrent    null.Int    `json:"km_current" db:"km_current"`
	Observations null.String `json:"observations" db:"observations"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}
