package models

// Category is a storefront section grouping packages.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
