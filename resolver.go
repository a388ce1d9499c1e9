package axmldecode

import "fmt"

// ResourceResolver is consulted by the binary XML parser to turn
// REFERENCE/ATTRIBUTE values and attribute-name resource ids into
// displayable strings, per spec.md §4.6. A nil resolver leaves references
// rendered as their raw hex id and attribute names as "AttrId:0x...".
type ResourceResolver interface {
	ValueResolver
	ResolveAttributeName(resID uint32) (string, bool)
}

// TableResolver resolves against a parsed ResourceTable, selecting the
// best-matching locale candidate and optionally following STRING/reference
// chains down to a terminal value, per spec.md §4.6.
type TableResolver struct {
	table          *ResourceTable
	locale         string
	resolveToValue bool
	framework      FrameworkDictionary
}

// NewTableResolver builds a resolver over table. When resolveToValue is
// true, REFERENCE values are followed to their terminal STRING value
// (falling back to "@type/key" form on failure); when false, references
// always render as "@type/key". framework may be nil.
func NewTableResolver(table *ResourceTable, locale string, resolveToValue bool, framework FrameworkDictionary) *TableResolver {
	return &TableResolver{table: table, locale: locale, resolveToValue: resolveToValue, framework: framework}
}

// ResolveReference implements ValueResolver.
func (r *TableResolver) ResolveReference(resID uint32) (string, bool) {
	if s, ok := resolveFrameworkStyle(resID, r.framework); ok {
		return s, true
	}
	if r.table == nil {
		return "", false
	}
	entry, ok := r.table.SelectEntry(resID, r.locale)
	if !ok {
		return "", false
	}
	ref := fmt.Sprintf("@%s/%s", entry.TypeName, entry.Key)
	if !r.resolveToValue {
		return ref, true
	}
	if s, ok := r.resolveToString(entry, map[uint32]bool{}); ok {
		return s, true
	}
	return ref, true
}

// resolveToString follows a STRING-typed entry, or a chain of
// REFERENCE/ATTRIBUTE entries terminating in one, with cycle detection via
// seen (keyed by the resource id already visited), per spec.md §4.6.
func (r *TableResolver) resolveToString(entry ResourceEntry, seen map[uint32]bool) (string, bool) {
	if !entry.HasValue {
		return "", false
	}
	if entry.Value.DataType == ResTypeString {
		return r.table.String(int(entry.Value.Data))
	}
	if !entry.Value.IsReference() {
		return "", false
	}
	refID := entry.Value.Data
	if seen[refID] {
		return "", false
	}
	seen[refID] = true
	refEntry, ok := r.table.SelectEntry(refID, r.locale)
	if !ok {
		return "", false
	}
	return r.resolveToString(refEntry, seen)
}

// ResolveAttributeName implements ResourceResolver.
func (r *TableResolver) ResolveAttributeName(resID uint32) (string, bool) {
	if r.table == nil {
		return "", false
	}
	return r.table.AttributeName(resID)
}

// emptyResolver resolves nothing; used when no resources.arsc is supplied.
type emptyResolver struct{}

func (emptyResolver) ResolveReference(uint32) (string, bool)     { return "", false }
func (emptyResolver) ResolveAttributeName(uint32) (string, bool) { return "", false }
