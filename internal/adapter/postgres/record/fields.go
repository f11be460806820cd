package record

import (
	"maps"
	"sort"
)

// Fields maps column names to values. Values may be a Ref, which is resolved
// to the referenced instance's primary key when the statement is built.
type Fields map[string]any

// Key is a composite primary-key value, in the table's key column order.
type Key []any

// merge returns defaults overlaid with fields; fields win on conflict.
func merge(defaults, fields Fields) Fields {
	out := make(Fields, len(defaults)+len(fields))
	maps.Copy(out, defaults)
	maps.Copy(out, fields)
	return out
}

// split separates Ref values from plain values. Refs that already resolve are
// moved into plain; the rest are returned as deferred.
func split(fields Fields) (plain Fields, deferred map[string]Ref) {
	plain = make(Fields, len(fields))
	for k, v := range fields {
		ref, ok := v.(Ref)
		if !ok {
			plain[k] = v
			continue
		}
		resolved, err := ref.Resolve()
		if err != nil {
			if deferred == nil {
				deferred = make(map[string]Ref)
			}
			deferred[k] = ref
			continue
		}
		plain[k] = resolved
	}
	return plain, deferred
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
