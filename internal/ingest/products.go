package ingest

import (
	"fmt"
	"strings"

	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/state"
)

var productFields = []string{"id", "name", "description", "category_id", "subcategory_id", "price"}

// Products appends every product in content that references known
// categories and carries a positive price.
func Products(session *state.Session, content string) (*Report, error) {
	if session.Counts().Categories == 0 {
		return nil, ErrNoCategories
	}

	items, err := decodeArray(content)
	if err != nil {
		return nil, err
	}

	report := newReport(domain.StageProducts, len(items))
	report.logger.Infof("Successfully generated %d products", len(items))

	for i, raw := range items {
		if p, ok := product(session, report, i, raw); ok {
			session.AddProduct(p)
			report.accept(p.ID)
		}
	}

	report.logger.Infof("Successfully processed %d products", session.Counts().Products)
	return report, nil
}

func product(session *state.Session, report *Report, index int, raw any) (domain.Product, bool) {
	item, ok := raw.(map[string]any)
	if !ok {
		report.skip(Skip{Index: index, Kind: KindProduct, Reason: ReasonInvalidItem,
			Detail: fmt.Sprintf("expected object, got %s", typeName(raw))})
		return domain.Product{}, false
	}

	id, _ := identifier(item["id"])
	if missing := missingFields(item, productFields...); len(missing) > 0 {
		report.skip(Skip{Index: index, ID: id, Kind: KindProduct, Reason: ReasonMissingField,
			Detail: "missing " + strings.Join(missing, ", ")})
		return domain.Product{}, false
	}

	refs := make(map[string]string, 3)
	for _, field := range []string{"id", "category_id", "subcategory_id"} {
		v, ok := identifier(item[field])
		if !ok {
			report.skip(Skip{Index: index, ID: id, Kind: KindProduct, Reason: ReasonInvalidItem,
				Detail: fmt.Sprintf("%s is %s", field, typeName(item[field]))})
			return domain.Product{}, false
		}
		refs[field] = v
	}

	for _, field := range []string{"category_id", "subcategory_id"} {
		if !session.HasCategory(refs[field]) {
			report.skip(Skip{Index: index, ID: id, Kind: KindProduct, Reason: ReasonUnknownReference,
				Detail: fmt.Sprintf("invalid %s %s", field, refs[field])})
			return domain.Product{}, false
		}
	}

	price, ok := number(item["price"])
	if !ok {
		report.skip(Skip{Index: index, ID: id, Kind: KindProduct, Reason: ReasonInvalidPrice,
			Detail: fmt.Sprintf("invalid price format %v", normalize(item["price"]))})
		return domain.Product{}, false
	}
	if price <= 0 {
		report.skip(Skip{Index: index, ID: id, Kind: KindProduct, Reason: ReasonInvalidPrice,
			Detail: fmt.Sprintf("invalid price %g", price)})
		return domain.Product{}, false
	}

	return domain.Product{
		ID:             id,
		Name:           text(item["name"]),
		Description:    text(item["description"]),
		CategoryID:     refs["category_id"],
		SubcategoryID:  refs["subcategory_id"],
		Price:          price,
		Specifications: object(item["specifications"]),
		Inventory:      object(item["inventory"]),
		Ratings:        object(item["ratings"]),
		ShippingInfo:   object(item["shipping_info"]),
	}, true
}
