package domain

// DateLayout is the calendar date format of Product.ArrivalDate.
const DateLayout = "2006-01-02"

// Product is a catalog entry identified by its model name.
type Product struct {
	Model        string   `json:"model"`
	Category     Category `json:"category"`
	SellingPrice Money    `json:"sellingPrice"`
	Quantity     int      `json:"quantity"`
	ArrivalDate  string   `json:"arrivalDate,omitempty"`
	Details      string   `json:"details,omitempty"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Quantity > 0
}
