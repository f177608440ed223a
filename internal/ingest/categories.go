package ingest

import (
	"fmt"
	"strings"

	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/state"
)

// Categories appends every usable top-level category and subcategory in
// content to session. Subcategory parent ids are kept as given; when one
// differs from the enclosing category a parent_mismatch note is recorded.
func Categories(session *state.Session, content string) (*Report, error) {
	items, err := decodeArray(content)
	if err != nil {
		return nil, err
	}

	report := newReport(domain.StageCategories, len(items))
	report.logger.Infof("Successfully generated %d categories", len(items))

	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			report.skip(Skip{Index: i, Kind: KindCategory, Reason: ReasonInvalidItem,
				Detail: fmt.Sprintf("expected object, got %s", typeName(raw))})
			continue
		}

		parent, ok := category(report, i, KindCategory, item)
		if !ok {
			continue
		}
		session.AddCategory(parent)
		report.accept(parent.ID)

		subs, ok := item["subcategories"].([]any)
		if !ok {
			if item["subcategories"] != nil {
				report.skip(Skip{Index: i, ID: parent.ID, Kind: KindSubcategory, Reason: ReasonInvalidItem,
					Detail: fmt.Sprintf("subcategories is %s, not an array", typeName(item["subcategories"]))})
			}
			continue
		}
		report.logger.Debugf("Processing %d subcategories for %s", len(subs), parent.Name)

		for j, rawSub := range subs {
			sub, ok := rawSub.(map[string]any)
			if !ok {
				report.skip(Skip{Index: i, Kind: KindSubcategory, Reason: ReasonInvalidItem,
					Detail: fmt.Sprintf("subcategory %d: expected object, got %s", j, typeName(rawSub))})
				continue
			}

			child, ok := category(report, i, KindSubcategory, sub)
			if !ok {
				continue
			}
			child.Subcategory = true
			if id, ok := identifier(sub["parent_id"]); ok {
				child.ParentID = &id
			}
			if child.ParentID == nil || *child.ParentID != parent.ID {
				report.note(Skip{Index: i, ID: child.ID, Kind: KindSubcategory, Reason: ReasonParentMismatch,
					Detail: fmt.Sprintf("parent_id %s, enclosing category %s", describe(child.ParentID), parent.ID)})
			}

			session.AddCategory(child)
			report.accept(child.ID)
		}
	}

	report.logger.Infof("Successfully processed %d total categories and subcategories", session.Counts().Categories)
	return report, nil
}

func category(report *Report, index int, kind string, item map[string]any) (domain.Category, bool) {
	if missing := missingFields(item, "name", "id"); len(missing) > 0 {
		report.skip(Skip{Index: index, Kind: kind, Reason: ReasonMissingField,
			Detail: "missing " + strings.Join(missing, ", ")})
		return domain.Category{}, false
	}

	id, ok := identifier(item["id"])
	if !ok {
		report.skip(Skip{Index: index, Kind: kind, Reason: ReasonInvalidItem,
			Detail: fmt.Sprintf("id is %s", typeName(item["id"]))})
		return domain.Category{}, false
	}

	return domain.Category{
		ID:          id,
		Name:        text(item["name"]),
		Description: text(item["description"]),
	}, true
}

func describe(s *string) string {
	if s == nil {
		return "<none>"
	}
	return *s
}
