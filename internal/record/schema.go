package record

import "sort"

// PlaceholderColumn is the single header column used when a sheet is
// created from record sets with no fields at all.
const PlaceholderColumn = "NoData"

// UnionHeader computes the header for a sheet. An already-established
// header is returned unchanged so a sheet's schema stays stable across
// runs. For a new sheet it is the sorted union of every field name across
// every record in every set, falling back to a placeholder column when the
// union is empty.
func UnionHeader(existing []string, sets ...[]Record) []string {
	if len(existing) > 0 {
		return existing
	}

	union := make(map[string]bool)
	for _, set := range sets {
		for _, rec := range set {
			for _, name := range rec.Names() {
				union[name] = true
			}
		}
	}
	if len(union) == 0 {
		return []string{PlaceholderColumn}
	}

	header := make([]string, 0, len(union))
	for name := range union {
		header = append(header, name)
	}
	sort.Strings(header)
	return header
}

// Reindex projects records onto a fixed header: one value per column in
// header order, empty for fields a record lacks. Fields outside the header
// are dropped; an established sheet's schema is never widened mid-run.
func Reindex(records []Record, header []string) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		proj := New()
		for _, col := range header {
			v, _ := rec.Get(col)
			proj.Set(col, v)
		}
		out[i] = proj
	}
	return out
}
