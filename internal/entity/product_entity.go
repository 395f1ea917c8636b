package entity

// Product is a catalog item. Products are read-only once the catalog is loaded.
type Product struct {
	Id          int    `json:"id"`
	Brand       string `json:"brand"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}
