// Package grouping derives entity groups from shared attribute values.
//
// Groups are keyed by formatted attribute values so they can be used as
// entity names. Multi-attribute keys join the values with Delimiter, and a
// missing value is written as Missing.
package grouping

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// Delimiter joins the values of a multi-attribute key.
	Delimiter = "_"
	// Missing stands for an absent attribute value.
	Missing = "-"
	// PairDelimiter joins the labels of combined groups.
	PairDelimiter = ","
)

// Attributes is the attribute mapping of one keyed item.
type Attributes map[string]any

// Groups maps a group label to the ordered keys that share it.
type Groups map[string][]int

// Labels returns the group labels sorted.
func (g Groups) Labels() []string {
	labels := make([]string, 0, len(g))
	for l := range g {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Exact makes a Grouper write floats in their shortest exact form, so two
// values share a label only when they are equal.
const Exact = -1

// Grouper formats attribute values with a fixed float precision.
type Grouper struct {
	precision int
}

// New creates a grouper writing floats with precision decimal places, or
// exactly when precision is Exact.
func New(precision int) *Grouper {
	return &Grouper{precision: precision}
}

// ByAttribute groups the keys of items by the value of attr. Items
// without the attribute, or with a nil value, are left out.
// Keys are visited in ascending order.
func (g *Grouper) ByAttribute(items map[int]Attributes, attr string) Groups {
	groups := Groups{}
	for _, key := range sortedKeys(items) {
		v, ok := items[key][attr]
		if !ok || v == nil {
			continue
		}
		label := g.Format(v)
		groups[label] = append(groups[label], key)
	}
	return groups
}

// ByAttributes groups the keys of items by the tuple of attrs values.
// Every item lands in a group; absent values are written as Missing.
func (g *Grouper) ByAttributes(items map[int]Attributes, attrs []string) Groups {
	groups := Groups{}
	values := make([]string, len(attrs))
	for _, key := range sortedKeys(items) {
		item := items[key]
		for i, attr := range attrs {
			v, ok := item[attr]
			if !ok || v == nil {
				values[i] = Missing
				continue
			}
			values[i] = g.Format(v)
		}
		label := strings.Join(values, Delimiter)
		groups[label] = append(groups[label], key)
	}
	return groups
}

// Format renders an attribute value as a group label fragment.
func (g *Grouper) Format(v any) string {
	switch x := v.(type) {
	case float64:
		return g.formatFloat(x, 64)
	case float32:
		return g.formatFloat(float64(x), 32)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = g.Format(f)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = g.Format(f)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func (g *Grouper) formatFloat(x float64, bits int) string {
	if x == 0 {
		x = 0 // -0
	}
	if g.precision < 0 {
		return strconv.FormatFloat(x, 'g', -1, bits)
	}
	s := strconv.FormatFloat(x, 'f', g.precision, bits)
	if strings.TrimLeft(s, "-0.") == "" {
		return strings.TrimPrefix(s, "-")
	}
	return s
}

// AllMissing returns the label of an item lacking every one of n attributes.
func AllMissing(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Missing
	}
	return strings.Join(parts, Delimiter)
}

// CombineAllSets intersects every group of a with every group of b.
// The result is keyed "labelA,labelB" and keeps the order of a.
// Empty intersections are omitted.
func CombineAllSets(a, b Groups) Groups {
	out := Groups{}
	for _, la := range a.Labels() {
		for _, lb := range b.Labels() {
			members := make(map[int]struct{}, len(b[lb]))
			for _, k := range b[lb] {
				members[k] = struct{}{}
			}
			var common []int
			for _, k := range a[la] {
				if _, ok := members[k]; ok {
					common = append(common, k)
				}
			}
			if len(common) > 0 {
				out[la+PairDelimiter+lb] = common
			}
		}
	}
	return out
}

func sortedKeys(items map[int]Attributes) []int {
	keys := make([]int, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
