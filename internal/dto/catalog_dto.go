package dto

// ─── Product models ──────────────────────────────────────────────────────────

type CreateModelRequest struct {
	Brand       string  `json:"brand"       validate:"required,min=1,max=60"`
	Name        string  `json:"name"        validate:"required,min=1,max=120"`
	ModelCode   string  `json:"model_code"  validate:"required,min=2,max=40"`
	Description *string `json:"description"`
}

type ModelResponse struct {
	ID          string  `json:"id"`
	Brand       string  `json:"brand"`
	Name        string  `json:"name"`
	ModelCode   string  `json:"model_code"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}

// ─── Spare parts ─────────────────────────────────────────────────────────────

type CreateSparePartRequest struct {
	Brand    string  `json:"brand"     validate:"required,min=1,max=60"`
	Name     string  `json:"name"      validate:"required,min=1,max=120"`
	BranchID *string `json:"branch_id" validate:"omitempty,uuid"`
	ModelID  *string `json:"model_id"  validate:"omitempty,uuid"`
}

type SparePartResponse struct {
	ID          string  `json:"id"`
	Brand       string  `json:"brand"`
	Name        string  `json:"name"`
	ItemCode    string  `json:"item_code"`
	BranchID    *string `json:"branch_id"`
	ModelID     *string `json:"model_id"`
	StockOnHand int     `json:"stock_on_hand"`
	Active      bool    `json:"active"`
}

// IssueStockRequest moves quantity units of a spare part out of a lot into
// branch stock, writing a StockMovement.
type IssueStockRequest struct {
	LotID       string `json:"lot_id"        validate:"required,uuid"`
	SparePartID string `json:"spare_part_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity"      validate:"required,gt=0"`
	Reason      string `json:"reason"`
}

type CatalogFilter struct {
	Brand    string `form:"brand"`
	Name     string `form:"name"`
	BranchID string `form:"branch_id"`
	Page     int    `form:"page,default=1"   validate:"min=0"`
	Limit    int    `form:"limit,default=20" validate:"min=0,max=100"`
}
