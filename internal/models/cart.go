package models

// CartItem is a package snapshot taken at add time, annotated with what the
// buyer typed into the order form. Items are never edited in place; changing
// one means removing it and adding a fresh snapshot.
type CartItem struct {
	CartID        int64  `bson:"cartId" json:"cartId"`
	PackageID     FlexID `bson:"packageId" json:"packageId"`
	Title         string `bson:"title" json:"title"`
	Category      string `bson:"category" json:"category"`
	Price         Price  `bson:"price" json:"price"`
	Description   string `bson:"description,omitempty" json:"description,omitempty"`
	Image         string `bson:"image,omitempty" json:"image,omitempty"`
	OrderMessage  string `bson:"orderMessage,omitempty" json:"orderMessage,omitempty"`
	CustomDetails string `bson:"customDetails,omitempty" json:"customDetails,omitempty"`
}

// CartTotal sums the numeric-priced lines; quote-pending lines contribute 0.
func CartTotal(items []CartItem) float64 {
	total := 0.0
	for _, item := range items {
		if amount, ok := item.Price.Numeric(); ok {
			total += amount
		}
	}
	return total
}
