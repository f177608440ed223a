package domain

import "fmt"

// Product is an accepted catalogue item; the attribute groups are passed
// through from the model output without validation.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	CategoryID    string  `json:"category_id"`
	SubcategoryID string  `json:"subcategory_id"`
	Price         float64 `json:"price"`

	Specifications map[string]any `json:"specifications"`
	Inventory      map[string]any `json:"inventory"`
	Ratings        map[string]any `json:"ratings"`
	ShippingInfo   map[string]any `json:"shipping_info"`
}

func (p Product) Text() string {
	return fmt.Sprintf("Product: %s - %s", p.Name, p.Description)
}

func (p Product) Record() Record {
	return Record{
		"text":           p.Text(),
		"id":             p.ID,
		"name":           p.Name,
		"description":    p.Description,
		"category_id":    p.CategoryID,
		"subcategory_id": p.SubcategoryID,
		"price":          p.Price,
		"specifications": orEmpty(p.Specifications),
		"inventory":      orEmpty(p.Inventory),
		"ratings":        orEmpty(p.Ratings),
		"shipping_info":  orEmpty(p.ShippingInfo),
	}
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
