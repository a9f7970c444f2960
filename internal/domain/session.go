package domain

import "time"

// SessionSubject son los datos de la cuenta que viajan en el token.
type SessionSubject struct {
	UserID    string
	Email     string
	UserType  UserType
	CompanyID *string
}

// SessionToken es un bearer token firmado; no se persiste.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
