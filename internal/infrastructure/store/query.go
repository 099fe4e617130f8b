package store

import "sort"

// Matches reports whether doc satisfies every condition in filter.
// Scalar conditions are equality checks; a condition against a list field
// is a membership check.
func Matches(doc Doc, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if list, isList := got.([]any); isList {
			found := false
			for _, item := range list {
				if equalValues(item, want) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
			continue
		}
		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	if fa, aok := toFloat(a); aok {
		fb, bok := toFloat(b)
		return bok && fa == fb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// CompareValues orders two document field values: nil first, then numbers,
// booleans (false before true) and strings.
func CompareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, aok := toFloat(a); aok {
		if fb, bok := toFloat(b); bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if ba, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	sa, aok := a.(string)
	sb, bok := b.(string)
	if aok && bok {
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		default:
			return 0
		}
	}
	return 0
}

// SortDocs sorts items by the given criteria, falling back to the document
// key ascending as the final tiebreak so ordering is always total.
func SortDocs(items []KeyedDoc, orders []Order) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareDocs(items[i], items[j], orders) < 0
	})
}

func compareDocs(a, b KeyedDoc, orders []Order) int {
	for _, o := range orders {
		cmp := CompareValues(a.Doc[o.Field], b.Doc[o.Field])
		if o.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	switch {
	case a.Key < b.Key:
		return -1
	case a.Key > b.Key:
		return 1
	default:
		return 0
	}
}

// compareToCursor orders item against the cursor boundary in the sort order
// defined by orders.
func compareToCursor(item KeyedDoc, c *Cursor, orders []Order) int {
	for i, o := range orders {
		if i >= len(c.Values) {
			break
		}
		cmp := CompareValues(item.Doc[o.Field], c.Values[i])
		if o.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	switch {
	case item.Key < c.Key:
		return -1
	case item.Key > c.Key:
		return 1
	default:
		return 0
	}
}

// CursorFor builds the pagination boundary for one item under the given
// order criteria.
func CursorFor(item KeyedDoc, orders []Order) *Cursor {
	values := make([]any, len(orders))
	for i, o := range orders {
		values[i] = item.Doc[o.Field]
	}
	return &Cursor{Key: item.Key, Values: values}
}

// PaginateSlice windows a fully sorted result set according to q. Items are
// sorted in place. Pages are always returned in canonical order regardless
// of the paging direction.
func PaginateSlice(items []KeyedDoc, q PageQuery) *Page {
	SortDocs(items, q.Orders)

	size := q.PageSize
	if size <= 0 {
		size = len(items)
	}

	start, end := 0, 0
	switch {
	case q.Cursor == nil:
		start = 0
		end = min(size, len(items))
	case q.Direction == Prev:
		// Everything strictly before the boundary, keeping the last page.
		end = sort.Search(len(items), func(i int) bool {
			return compareToCursor(items[i], q.Cursor, q.Orders) >= 0
		})
		start = max(0, end-size)
	default:
		// Everything strictly after the boundary.
		start = sort.Search(len(items), func(i int) bool {
			return compareToCursor(items[i], q.Cursor, q.Orders) > 0
		})
		end = min(start+size, len(items))
	}

	page := &Page{
		Items:   items[start:end],
		HasPrev: start > 0,
		HasNext: end < len(items),
	}
	if len(page.Items) > 0 {
		page.PrevCursor = CursorFor(page.Items[0], q.Orders)
		page.NextCursor = CursorFor(page.Items[len(page.Items)-1], q.Orders)
	}
	return page
}
