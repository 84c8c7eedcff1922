package cart

import "ezelectronics/internal/domain"

// cartRow is one row of the carts LEFT JOIN cart_lines stream. Line fields
// are nil for a cart without lines.
type cartRow struct {
	CartID      int64
	Customer    string
	Paid        bool
	PaymentDate *string
	Model       *string
	Quantity    *int
	Category    *string
	Price       *domain.Money
}

// groupRows folds a row stream ordered by cart id into carts. A new cart
// starts whenever the id changes; the open cart is flushed at the end.
func groupRows(rows []cartRow) []domain.Cart {
	carts := []domain.Cart{}
	var current *domain.Cart

	flush := func() {
		if current == nil {
			return
		}
		current.Recompute()
		carts = append(carts, *current)
		current = nil
	}

	for _, row := range rows {
		if current == nil || current.ID != row.CartID {
			flush()
			current = &domain.Cart{
				ID:          row.CartID,
				Customer:    row.Customer,
				Paid:        row.Paid,
				PaymentDate: row.PaymentDate,
				Products:    []domain.CartLine{},
			}
		}
		if row.Model == nil {
			continue
		}
		line := domain.CartLine{Model: *row.Model}
		if row.Quantity != nil {
			line.Quantity = *row.Quantity
		}
		if row.Category != nil {
			line.Category = domain.Category(*row.Category)
		}
		if row.Price != nil {
			line.Price = *row.Price
		}
		current.Products = append(current.Products, line)
	}
	flush()

	return carts
}
