package domain

import "fmt"

const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

type PurchaseEntry struct {
	ProductID    string  `json:"product_id"`
	PurchaseDate string  `json:"purchase_date"`
	Price        float64 `json:"price"`
}

type FavoriteCategory struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// User is an accepted profile. JoinDate and LastLogin are nil when the
// model supplied a value that does not look like YYYY-MM-DD.
type User struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	JoinDate           *string            `json:"join_date"`
	PurchaseHistory    []PurchaseEntry    `json:"purchase_history"`
	FavoriteCategories []FavoriteCategory `json:"favorite_categories"`
	TotalSpent         float64            `json:"total_spent"`
	AccountStatus      string             `json:"account_status"`
	LastLogin          *string            `json:"last_login"`
}

func (u User) Text() string {
	return fmt.Sprintf("User Profile: %s (%s)", u.Name, u.Email)
}

func (u User) Record() Record {
	purchases := make([]map[string]any, 0, len(u.PurchaseHistory))
	for _, p := range u.PurchaseHistory {
		purchases = append(purchases, map[string]any{
			"product_id":    p.ProductID,
			"purchase_date": p.PurchaseDate,
			"price":         p.Price,
		})
	}

	favorites := make([]map[string]any, 0, len(u.FavoriteCategories))
	for _, f := range u.FavoriteCategories {
		favorites = append(favorites, map[string]any{
			"category_id": f.CategoryID,
			"name":        f.Name,
		})
	}

	return Record{
		"text":                u.Text(),
		"id":                  u.ID,
		"name":                u.Name,
		"email":               u.Email,
		"join_date":           optional(u.JoinDate),
		"purchase_history":    purchases,
		"favorite_categories": favorites,
		"total_spent":         u.TotalSpent,
		"account_status":      u.AccountStatus,
		"last_login":          optional(u.LastLogin),
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
