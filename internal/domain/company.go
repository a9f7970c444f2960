package domain

// Company es la organizacion a la que puede pertenecer una cuenta.
type Company struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	IndustryTypeID *string `json:"industry_type_id,omitempty"`
}

// IndustryType es la clasificacion de industria de una Company.
type IndustryType struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
