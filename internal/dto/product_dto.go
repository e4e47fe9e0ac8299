package dto

// CreateProductsFromLotRequest creates quantity serialized product units for a
// model, consuming the same amount from the lot's MODEL item in one
// transaction.
type CreateProductsFromLotRequest struct {
	LotID       string  `json:"lot_id"       validate:"required,uuid"`
	ModelID     string  `json:"model_id"     validate:"required,uuid"`
	Quantity    int     `json:"quantity"     validate:"required,gt=0"`
	BranchID    *string `json:"branch_id"    validate:"omitempty,uuid"`
	WarehouseID *string `json:"warehouse_id" validate:"omitempty,uuid"`
}

type ProductResponse struct {
	ID           string  `json:"id"`
	SerialNumber string  `json:"serial_number"`
	ModelID      string  `json:"model_id"`
	LotID        *string `json:"lot_id,omitempty"`
	BranchID     *string `json:"branch_id,omitempty"`
	WarehouseID  *string `json:"warehouse_id,omitempty"`
	Status       string  `json:"status"`
}

type ProductFilter struct {
	ModelID  string `form:"model_id"`
	LotID    string `form:"lot_id"`
	BranchID string `form:"branch_id"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"   validate:"min=0"`
	Limit    int    `form:"limit,default=20" validate:"min=0,max=100"`
}
