package data

import "sort"

// Dataset is an ordered sequence of rows
type Dataset []Row

// Clone returns a dataset whose rows are copies of the receiver's rows
func (ds Dataset) Clone() Dataset {
	out := make(Dataset, len(ds))
	for i, r := range ds {
		out[i] = r.Copy()
	}
	return out
}

// Column returns the values of one field across all rows
func (ds Dataset) Column(name string) []Value {
	out := make([]Value, len(ds))
	for i, r := range ds {
		out[i] = r.Value(name)
	}
	return out
}

// FieldNames returns the union of field names in first-seen order
func (ds Dataset) FieldNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range ds {
		for _, f := range r.fields {
			if !seen[f] {
				seen[f] = true
				names = append(names, f)
			}
		}
	}
	return names
}

// FromMaps builds a dataset from plain maps, with each row's fields ordered
// by the given field list followed by any remaining keys in sorted order.
func FromMaps(order []string, maps ...map[string]Value) Dataset {
	ds := make(Dataset, 0, len(maps))
	for _, m := range maps {
		r := NewRow()
		for _, f := range order {
			if v, ok := m[f]; ok {
				r.Set(f, v)
			}
		}
		for _, k := range sortedKeys(m) {
			if !r.Has(k) {
				r.Set(k, m[k])
			}
		}
		ds = append(ds, r)
	}
	return ds
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
