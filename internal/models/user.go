package models

import "time"

type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Profile      Profile   `json:"profile" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Profile carries the shipping-related account details kept alongside the
// user record.
type Profile struct {
	PhoneNumber string `json:"phone_number" db:"phone_number"`
	Address     string `json:"address" db:"address"`
	City        string `json:"city" db:"city"`
	State       string `json:"state" db:"state"`
	Country     string `json:"country" db:"country"`
	PostalCode  string `json:"postal_code" db:"postal_code"`
}

// TokenResponse is the payload returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
