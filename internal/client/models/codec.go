package models

// FromRaw builds a Record from a flat wire map. The identifier is resolved
// here, once; keys that are neither typed fields nor the key the identifier
// was read from end up in Extra, agreeing identifier keys included.
func FromRaw(raw map[string]string) Record {
	id := ResolveIdentifier(raw)
	r := Record{ID: id.ID, IDKey: id.Key, IDConflict: id.Conflicting}
	for key, value := range raw {
		if id.Resolved() && key == id.Key {
			continue
		}
		if f, ok := fieldByKey[key]; ok {
			r.Set(f, value)
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[key] = value
	}
	return r
}

// Raw flattens r back to wire keys. Typed fields are always present so a
// cleared value reaches the server as "".
func (r Record) Raw() map[string]string {
	raw := make(map[string]string, len(Fields)+len(r.Extra)+1)
	for k, v := range r.Extra {
		raw[k] = v
	}
	for _, f := range Fields {
		raw[string(f)] = r.Get(f)
	}
	if r.ID != "" {
		key := r.IDKey
		if key == "" {
			key = IdentifierKeys[0]
		}
		raw[key] = r.ID
	}
	return raw
}

var fieldByKey = func() map[string]Field {
	m := make(map[string]Field, len(Fields))
	for _, f := range Fields {
		m[string(f)] = f
	}
	return m
}()
