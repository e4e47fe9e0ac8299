package dto

type CreateVendorRequest struct {
	Name         string  `json:"name"          validate:"required,min=2,max=120"`
	TaxID        string  `json:"tax_id"        validate:"required,min=5,max=30"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Address      *string `json:"address"`
	PaymentTerms *string `json:"payment_terms"`
}

type UpdateVendorRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=2,max=120"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Address      *string `json:"address"`
	PaymentTerms *string `json:"payment_terms"`
}

type VendorResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TaxID        string  `json:"tax_id"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Address      *string `json:"address"`
	PaymentTerms *string `json:"payment_terms"`
	Active       bool    `json:"active"`
}
