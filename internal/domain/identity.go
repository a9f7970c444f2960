package domain

// EnrichedAccount es la lectura completa de una cuenta con su contexto
// organizacional. Incluye el digest; no debe salir del servicio tal cual.
type EnrichedAccount struct {
	Account  Account
	Company  *Company
	Industry *IndustryType
}

// Identity es la vista publica devuelta en el login.
type Identity struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	UserType       UserType `json:"user_type"`
	CompanyID      *string  `json:"company_id"`
	CompanyName    *string  `json:"company_name"`
	IndustryTypeID *string  `json:"industry_type_id"`
	IndustryCode   *string  `json:"industry_code"`
	IndustryName   *string  `json:"industry_name"`
}

// Identity compone la vista publica omitiendo el digest.
func (e EnrichedAccount) Identity() Identity {
	id := Identity{
		ID:       e.Account.ID,
		Name:     e.Account.Name,
		Email:    e.Account.Email,
		UserType: e.Account.UserType,
	}
	if e.Company != nil {
		id.CompanyID = stringPtr(e.Company.ID)
		id.CompanyName = stringPtr(e.Company.Name)
		id.IndustryTypeID = e.Company.IndustryTypeID
	}
	if e.Industry != nil {
		id.IndustryTypeID = stringPtr(e.Industry.ID)
		id.IndustryCode = stringPtr(e.Industry.Code)
		id.IndustryName = stringPtr(e.Industry.Name)
	}
	return id
}

// CompanyID devuelve el id de la organizacion, o nil si no tiene.
func (e EnrichedAccount) CompanyID() *string {
	if e.Company != nil {
		return stringPtr(e.Company.ID)
	}
	return e.Account.CompanyID
}

func stringPtr(s string) *string {
	return &s
}
