package prompt

import (
	"encoding/json"
	"fmt"

	"ecomm/datagen/internal/domain"
	"ecomm/datagen/internal/state"
)

// userPromptProductLimit bounds how many products are listed in the user
// prompt. Ingestion still accepts references to any known product.
const userPromptProductLimit = 10

const categoryPrompt = `Generate a list of '%d' unique, creative, and diverse top-level categories for an online marketplace focused on the theme of '%s'. ` +
	`Give each category a UUID, name, and description. These categories should be specific to the marketplace theme, but general enough to allow subcategories. ` +
	`For each category, create exactly three subcategories, each with its own UUID, name, and description, and include the UUID of the parent category as parent_id. ` +
	`Do not format your response as markdown, or include any other text other than properly formatted JSON. ` +
	`Do not truncate or shorten your response in any way. It is vital that your response only be valid JSON. ` +
	`Return the answer in JSON format and strictly adhere to the following JSON schema. The response must be a valid JSON array starting with '[' and ending with ']'.
[
    {
        "id": "string",
        "name": "string",
        "description": "string",
        "subcategories": [
            {
                "id": "string",
                "name": "string",
                "description": "string",
                "parent_id": "string"
            }
        ],
        "error": "string (optional, only if the request cannot be fulfilled)"
    }
]
If you don't know how to answer or have issues, please return an error message in JSON.`

const productPrompt = `Generate a list of %d products for an online marketplace focused on %s. ` +
	`Return a JSON array where each element represents a product. ` +
	`Use only the following categories:
%s
` +
	`The response must be a valid JSON array starting with '[' and ending with ']'. Do not format your response as markdown, or include any other text other than properly formatted JSON. ` +
	`Do not truncate or shorten your response in any way. It is vital that your response only be valid JSON. ` +
	`Each product object in the array must follow this exact schema:
[
    {
        "id": "string",
        "name": "string",
        "description": "string",
        "category_id": "string",
        "subcategory_id": "string",
        "price": "number",
        "specifications": {
            "weight": "string",
            "dimensions": "string",
            "color": "string",
            "material": "string",
            "warranty": "string"
        },
        "inventory": {
            "stock_count": "number",
            "sku": "string",
            "warehouse_location": "string"
        },
        "ratings": {
            "average_score": "number (1-5)",
            "review_count": "number"
        },
        "shipping_info": {
            "free_shipping": "boolean",
            "shipping_weight": "string",
            "handling_time": "string"
        }
    }
]`

const userPrompt = `Generate a list of %d realistic user profiles for an online marketplace focused on %s. ` +
	`Return a JSON array where each element represents a user profile. ` +
	`Use only the following products and categories:
Categories:
%s
Products:
%s%s
` +
	`For each user, create a purchase history of 3-5 items from the available products list, and a list of 2-3 favorite categories from the available categories. ` +
	`The response must be a valid JSON array starting with '[' and ending with ']'. Do not format your response as markdown, or include any other text other than properly formatted JSON. ` +
	`Do not truncate or shorten your response in any way. It is vital that your response only be valid JSON. ` +
	`Each user object in the array must follow this exact schema:
[
    {
        "id": "string",
        "name": "string",
        "email": "string",
        "join_date": "string (YYYY-MM-DD)",
        "purchase_history": [
            {
                "product_id": "string (must match a product from the provided list)",
                "purchase_date": "string (YYYY-MM-DD)",
                "price": "number (use actual price from product list)"
            }
        ],
        "favorite_categories": [
            {
                "category_id": "string (must match a category from the provided list)",
                "name": "string (use actual category name)"
            }
        ],
        "total_spent": "number",
        "account_status": "string (one of: active, inactive)",
        "last_login": "string (YYYY-MM-DD)"
    }
]`

const moreProductsNote = "...(more products available)"

// Builder formats stage prompts. Building never fails; it only reads the
// session it is given.
type Builder struct {
	Theme      string
	Categories int
	Products   int
	Users      int
}

func (b Builder) CategoryPrompt() string {
	return fmt.Sprintf(categoryPrompt, b.Categories, b.Theme)
}

// ProductPrompt embeds every known category as a compact one-line reference.
func (b Builder) ProductPrompt(session *state.Session) string {
	refs := CategoryReferences(session.Categories())
	return fmt.Sprintf(productPrompt, b.Products, b.Theme, indent(refs))
}

// UserPrompt lists the top-level categories and the first few products.
func (b Builder) UserPrompt(session *state.Session) string {
	categories := make([]map[string]any, 0)
	for _, c := range session.Categories() {
		if c.IsTopLevel() {
			categories = append(categories, map[string]any{
				"id":   c.ID,
				"name": c.Name,
			})
		}
	}

	products := session.Products()
	note := ""
	if len(products) > userPromptProductLimit {
		products = products[:userPromptProductLimit]
		note = "\n" + moreProductsNote
	}

	listed := make([]map[string]any, 0, len(products))
	for _, p := range products {
		listed = append(listed, productReference(p))
	}

	return fmt.Sprintf(userPrompt, b.Users, b.Theme, indent(categories), indent(listed), note)
}

// CategoryReferences renders the category list used to constrain product generation.
func CategoryReferences(categories []domain.Category) []string {
	refs := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.IsTopLevel() {
			refs = append(refs, fmt.Sprintf("Category ID: %s, Name: %s", c.ID, c.Name))
			continue
		}
		parent := "None"
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		refs = append(refs, fmt.Sprintf("Subcategory ID: %s, Name: %s, Parent ID: %s", c.ID, c.Name, parent))
	}
	return refs
}

func productReference(p domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"price":       p.Price,
		"category_id": p.CategoryID,
	}
}

func indent(v any) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(out)
}
