package domain

// Category classifies catalog products.
type Category string

const (
	CategorySmartphone Category = "Smartphone"
	CategoryLaptop     Category = "Laptop"
	CategoryAppliance  Category = "Appliance"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySmartphone, CategoryLaptop, CategoryAppliance:
		return true
	default:
		return false
	}
}
