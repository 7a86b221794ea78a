package domain

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Variants maps a variant axis (e.g. "size") to the chosen value (e.g. "M").
type Variants map[string]string

// Key returns the canonical form of the selection. It does not depend on the order
// in which keys were set, and nil and empty selections share the same key.
func (v Variants) Key() string {
	if len(v) == 0 {
		return ""
	}

	var b strings.Builder
	for i, k := range v.sortedKeys() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(v[k]))
	}

	return b.String()
}

// Values returns the chosen values ordered by axis name.
func (v Variants) Values() []string {
	keys := v.sortedKeys()
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, v[k])
	}
	return values
}

func (v Variants) Clone() Variants {
	if len(v) == 0 {
		return nil
	}
	return maps.Clone(v)
}

func (v Variants) sortedKeys() []string {
	return slices.Sorted(maps.Keys(v))
}
