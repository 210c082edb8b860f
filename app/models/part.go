package models

// Part is a catalog record. The id is server-assigned and immutable;
// created_at is opaque to the client and only echoed back for display.
type Part struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
	Category  string  `json:"category"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// PartDraft carries the user-entered fields of a Part before the server
// has assigned an id. The wire shape matches POST/PUT /parts.
type PartDraft struct {
	Name     string  `json:"name"     validate:"required,min=2,max=255"`
	Brand    string  `json:"brand"    validate:"required"`
	Price    float64 `json:"price"    validate:"numeric,gte=0"`
	Stock    int     `json:"stock"    validate:"integer,gte=0"`
	Category string  `json:"category" validate:"required"`
}
