package record

import "strings"

// EstimateCount estimates the number of distinct logical entities (orders)
// in a record set that may hold one row per line item. Rules, first match
// wins:
//
//  1. A field case-insensitively equal to an entry of priorityFields
//     (ordered, most canonical first): distinct values in that field.
//  2. The best identifier-named field ("id", "..._id", or a camel-case
//     "...Id"/"...ID" tail) whose name contains none of excludeKeywords:
//     the highest distinct-value count among candidates.
//  3. The raw row count.
func EstimateCount(records []Record, priorityFields, excludeKeywords []string) int {
	if len(records) == 0 {
		return 0
	}

	fields := fieldNames(records)

	for _, want := range priorityFields {
		for _, name := range fields {
			if strings.EqualFold(name, want) {
				return distinctValues(records, name)
			}
		}
	}

	best := 0
	for _, name := range fields {
		if !isIDField(name) {
			continue
		}
		if containsAny(strings.ToLower(name), excludeKeywords) {
			continue
		}
		if n := distinctValues(records, name); n > best {
			best = n
		}
	}
	if best > 0 {
		return best
	}

	return len(records)
}

// isIDField reports whether a field name denotes an identifier: "id"
// itself, an "_id" suffix, or a camel-case "Id"/"ID" tail. A lowercase
// "id" ending an ordinary word ("Paid", "Valid") does not qualify.
func isIDField(name string) bool {
	lower := strings.ToLower(name)
	if lower == "id" || strings.HasSuffix(lower, "_id") {
		return true
	}
	return strings.HasSuffix(name, "Id") || strings.HasSuffix(name, "ID")
}

func fieldNames(records []Record) []string {
	var names []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, name := range rec.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func distinctValues(records []Record, field string) int {
	distinct := make(map[string]bool)
	for _, rec := range records {
		if v, ok := rec.Get(field); ok {
			distinct[v.String()] = true
		}
	}
	return len(distinct)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
