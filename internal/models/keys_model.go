package models

import "time"

// ApiKey grants programmatic access to the dashboard API.
type ApiKey struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ApiKey    string    `db:"api_key" json:"api_key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ServiceKey is a user's API key for a third-party service the
// dashboard calls on their behalf (today only "imgbb"). The key is
// stored AES-GCM encrypted.
type ServiceKey struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Service   string    `db:"service" json:"service"`
	ApiKey    string    `db:"api_key" json:"-"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const ServiceImgbb = "imgbb"
