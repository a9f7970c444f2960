package domain

import "time"

// UserType clasifica el rol operativo de una cuenta.
type UserType string

const (
	UserTypeDriver  UserType = "driver"
	UserTypeManager UserType = "manager"
	UserTypeAdmin   UserType = "admin"
	UserTypeShipper UserType = "shipper"
)

// Valid reporta si t es uno de los tipos conocidos.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeDriver, UserTypeManager, UserTypeAdmin, UserTypeShipper:
		return true
	}
	return false
}

// Account es la fila persistida en users. PasswordHash nunca se serializa.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	UserType     UserType  `json:"user_type"`
	CompanyID    *string   `json:"company_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicAccount es la forma de Account que cruza la frontera del servicio.
type PublicAccount struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  UserType  `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		UserType:  a.UserType,
		CreatedAt: a.CreatedAt,
	}
}
