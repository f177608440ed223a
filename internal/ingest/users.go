package ingest

import (
	"fmt"
	"strings"

	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/state"
)

var userFields = []string{"id", "name", "email", "join_date"}

// Users appends every user in content that has the required fields.
// Purchases and favourites pointing at unknown ids are dropped from the
// user; malformed dates are cleared.
func Users(session *state.Session, content string) (*Report, error) {
	counts := session.Counts()
	if counts.Products == 0 || counts.Categories == 0 {
		return nil, ErrNoProducts
	}

	items, err := decodeArray(content)
	if err != nil {
		return nil, err
	}

	report := newReport(domain.StageUsers, len(items))
	report.logger.Infof("Successfully generated %d users", len(items))

	for i, raw := range items {
		if u, ok := user(session, report, i, raw); ok {
			session.AddUser(u)
			report.accept(u.ID)
		}
	}

	report.logger.Infof("Successfully processed %d users", session.Counts().Users)
	return report, nil
}

func user(session *state.Session, report *Report, index int, raw any) (domain.User, bool) {
	item, ok := raw.(map[string]any)
	if !ok {
		report.skip(Skip{Index: index, Kind: KindUser, Reason: ReasonInvalidItem,
			Detail: fmt.Sprintf("expected object, got %s", typeName(raw))})
		return domain.User{}, false
	}

	id, idOK := identifier(item["id"])
	if missing := missingFields(item, userFields...); len(missing) > 0 {
		report.skip(Skip{Index: index, ID: id, Kind: KindUser, Reason: ReasonMissingField,
			Detail: "missing " + strings.Join(missing, ", ")})
		return domain.User{}, false
	}
	if !idOK {
		report.skip(Skip{Index: index, Kind: KindUser, Reason: ReasonInvalidItem,
			Detail: fmt.Sprintf("id is %s", typeName(item["id"]))})
		return domain.User{}, false
	}

	u := domain.User{
		ID:                 id,
		Name:               text(item["name"]),
		Email:              text(item["email"]),
		PurchaseHistory:    purchases(session, report, index, id, item["purchase_history"]),
		FavoriteCategories: favorites(session, report, index, id, item["favorite_categories"]),
		AccountStatus:      domain.AccountStatusActive,
	}

	u.JoinDate = userDate(report, index, id, "join_date", item["join_date"])
	u.LastLogin = userDate(report, index, id, "last_login", item["last_login"])

	if total, ok := number(item["total_spent"]); ok {
		u.TotalSpent = total
	}
	if status, ok := item["account_status"].(string); ok && status != "" {
		u.AccountStatus = status
	}

	return u, true
}

func purchases(session *state.Session, report *Report, index int, userID string, v any) []domain.PurchaseEntry {
	entries, _ := v.([]any)
	out := make([]domain.PurchaseEntry, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			report.skip(Skip{Index: index, ID: userID, Kind: KindPurchase, Reason: ReasonInvalidItem,
				Detail: fmt.Sprintf("expected object, got %s", typeName(raw))})
			continue
		}

		productID, ok := identifier(entry["product_id"])
		if !ok || !session.HasProduct(productID) {
			report.skip(Skip{Index: index, ID: userID, Kind: KindPurchase, Reason: ReasonUnknownReference,
				Detail: fmt.Sprintf("invalid product_id in purchase history: %v", normalize(entry["product_id"]))})
			continue
		}

		price, _ := number(entry["price"])
		out = append(out, domain.PurchaseEntry{
			ProductID:    productID,
			PurchaseDate: text(entry["purchase_date"]),
			Price:        price,
		})
	}
	return out
}

func favorites(session *state.Session, report *Report, index int, userID string, v any) []domain.FavoriteCategory {
	entries, _ := v.([]any)
	out := make([]domain.FavoriteCategory, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			report.skip(Skip{Index: index, ID: userID, Kind: KindFavoriteCategory, Reason: ReasonInvalidItem,
				Detail: fmt.Sprintf("expected object, got %s", typeName(raw))})
			continue
		}

		categoryID, ok := identifier(entry["category_id"])
		if !ok || !session.HasCategory(categoryID) {
			report.skip(Skip{Index: index, ID: userID, Kind: KindFavoriteCategory, Reason: ReasonUnknownReference,
				Detail: fmt.Sprintf("invalid category_id in favorites: %v", normalize(entry["category_id"]))})
			continue
		}

		out = append(out, domain.FavoriteCategory{
			CategoryID: categoryID,
			Name:       text(entry["name"]),
		})
	}
	return out
}

// userDate keeps v when it looks like YYYY-MM-DD. Absent values stay nil
// without a note.
func userDate(report *Report, index int, userID, field string, v any) *string {
	if !present(v) {
		return nil
	}
	d, ok := date(v)
	if !ok {
		report.note(Skip{Index: index, ID: userID, Kind: KindUser, Reason: ReasonInvalidDate,
			Detail: fmt.Sprintf("invalid date format for %s: %v", field, normalize(v))})
	}
	return d
}
