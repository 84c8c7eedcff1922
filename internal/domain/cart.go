package domain

// PaymentDateLayout is the wire and storage format of Cart.PaymentDate.
const PaymentDateLayout = DateLayout

// Cart is a customer's shopping cart. At most one cart per customer is unpaid;
// paid carts are immutable history.
type Cart struct {
	ID          int64      `json:"-"`
	Customer    string     `json:"customer"`
	Paid        bool       `json:"paid"`
	PaymentDate *string    `json:"paymentDate"`
	Total       Money      `json:"total"`
	Products    []CartLine `json:"products"`
}

// CartLine is one product entry of a cart. Category and Price are snapshots
// taken from the catalog when the line was written.
type CartLine struct {
	Model    string   `json:"model"`
	Quantity int      `json:"quantity"`
	Category Category `json:"category"`
	Price    Money    `json:"price"`
}

// Subtotal is Price times Quantity.
func (l CartLine) Subtotal() Money {
	return l.Price.Mul(l.Quantity)
}

// NewEmptyCart is the cart returned to an owner without a current cart.
func NewEmptyCart(customer string) *Cart {
	return &Cart{
		Customer: customer,
		Products: []CartLine{},
	}
}

// Recompute sets Total to the sum of line subtotals.
func (c *Cart) Recompute() {
	total := Money{}
	for _, line := range c.Products {
		total = total.Add(line.Subtotal())
	}
	c.Total = total
}

// Line returns the line for model, if present.
func (c *Cart) Line(model string) (CartLine, bool) {
	for _, line := range c.Products {
		if line.Model == model {
			return line, true
		}
	}
	return CartLine{}, false
}

// CheckoutLine pairs a cart line with the live stock of its product.
type CheckoutLine struct {
	Model    string
	Quantity int
	Stock    int
}

// Validate checks the line against its stock.
func (l CheckoutLine) Validate() error {
	if l.Stock <= 0 {
		return ErrEmptyProductStock
	}
	if l.Quantity > l.Stock {
		return ErrLowProductStock
	}
	return nil
}
