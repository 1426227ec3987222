package domain

// Size is the slot class a product occupies in the machine.
type Size string

const (
	SizeSmall Size = "small"
	SizeLarge Size = "large"
)

// Category groups products for the weather cross-modifier.
type Category string

const (
	CategoryHotBeverage  Category = "hot_beverage"
	CategoryColdBeverage Category = "cold_beverage"
	CategorySnack        Category = "snack"
)

// Machine slot capacity: 4 rows x 3 slots, split evenly between size classes.
const (
	SmallSlots = 6
	LargeSlots = 6
)

// Product is a static catalog entry. TypicalRetail doubles as the reference
// price for the elasticity model.
type Product struct {
	ID              string
	Name            string
	SupplierCost    float64
	TypicalRetail   float64
	PriceElasticity float64
	SpoilageDays    int
	BaseSales       float64
	Category        Category
	Size            Size
}

// Catalog is the fixed product universe. Base sales are calibrated so a
// well-run machine barely clears the daily fee.
var Catalog = map[string]Product{
	"coffee": {
		ID:              "coffee",
		Name:            "Coffee",
		SupplierCost:    1.50,
		TypicalRetail:   3.00,
		PriceElasticity: -1.8,
		SpoilageDays:    7,
		BaseSales:       1.0,
		Category:        CategoryHotBeverage,
		Size:            SizeLarge,
	},
	"chocolate": {
		ID:              "chocolate",
		Name:            "Chocolate Bar",
		SupplierCost:    0.75,
		TypicalRetail:   2.00,
		PriceElasticity: -1.5,
		SpoilageDays:    90,
		BaseSales:       1.2,
		Category:        CategorySnack,
		Size:            SizeSmall,
	},
	"chips": {
		ID:              "chips",
		Name:            "Chips",
		SupplierCost:    0.50,
		TypicalRetail:   1.50,
		PriceElasticity: -1.2,
		SpoilageDays:    60,
		BaseSales:       1.5,
		Category:        CategorySnack,
		Size:            SizeSmall,
	},
	"soda": {
		ID:              "soda",
		Name:            "Soda",
		SupplierCost:    0.60,
		TypicalRetail:   2.50,
		PriceElasticity: -1.4,
		SpoilageDays:    180,
		BaseSales:       1.3,
		Category:        CategoryColdBeverage,
		Size:            SizeLarge,
	},
}

// ProductIDs is the catalog in stable iteration order. Every loop over the
// catalog must use this, not the map, so runs replay identically.
var ProductIDs = []string{"coffee", "chocolate", "chips", "soda"}

// IsKnownProduct reports whether id exists in the catalog.
func IsKnownProduct(id string) bool {
	_, ok := Catalog[id]
	return ok
}

// ProfitMargin returns the margin percentage for a product at the given
// retail price, floored at 0.
func ProfitMargin(productID string, retailPrice float64) float64 {
	p, ok := Catalog[productID]
	if !ok || retailPrice <= 0 {
		return 0
	}
	margin := (retailPrice - p.SupplierCost) / retailPrice * 100
	if margin < 0 {
		return 0
	}
	return margin
}
