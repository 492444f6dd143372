package provider

import (
	"strings"

	"github.com/orderledger-dev/orderledger/internal/record"
)

// Item fields guaranteed present on every record even when the source
// element omits them, so sparse orders don't shrink the schema.
var baselineItemFields = []string{
	"Id", "Sku", "Name", "Quantity", "Unit",
	"PriceNet", "PriceGross", "Vat", "Status",
}

var fieldNameSanitizer = strings.NewReplacer("/", "_", "[", "_", "]", "")

// toRecords flattens orders into one record per kept line item: the
// configured order-level columns first, then the flattened item fields
// prefixed "Item_", then the 1-based LineNo within the order.
func (c *Client) toRecords(orders []*record.Node) []record.Record {
	var out []record.Record
	for _, order := range orders {
		if !c.groupAllowed(order.TextAt("Customer/Group/Name")) {
			continue
		}

		ctx := record.New()
		for _, col := range c.cfg.Columns {
			ctx.Set(col.Name, record.Parse(order.TextAt(col.Path)))
		}

		for idx, item := range order.All("Items/Item") {
			if c.skipItem(item.TextAt("Name")) {
				continue
			}

			flat := record.Flatten(item, "")
			for _, f := range baselineItemFields {
				flat.SetDefault(f, record.Empty())
			}

			rec := record.New()
			for _, name := range ctx.Names() {
				v, _ := ctx.Get(name)
				rec.Set(name, v)
			}
			for _, name := range flat.Names() {
				v, _ := flat.Get(name)
				rec.Set("Item_"+fieldNameSanitizer.Replace(name), v)
			}
			rec.Set("LineNo", record.Int(idx+1))

			out = append(out, rec)
		}
	}
	return out
}

func (c *Client) groupAllowed(group string) bool {
	if len(c.cfg.AllowedGroups) == 0 {
		return true
	}
	for _, g := range c.cfg.AllowedGroups {
		if group == g {
			return true
		}
	}
	return false
}

func (c *Client) skipItem(name string) bool {
	lower := strings.ToLower(name)
	for _, sub := range c.cfg.SkipItemSubstrings {
		if sub != "" && strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
