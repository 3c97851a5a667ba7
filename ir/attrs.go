package ir

// Attrs is an ordered attribute list. Order is preserved from the
// source document; lookups are linear, which wins for the short lists
// HTML elements actually have.
type Attrs [][2]string

func (a Attrs) Get(name string) (string, bool) {
	for _, kv := range a {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

func (a Attrs) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// Set replaces the named attribute in place or appends it.
func (a Attrs) Set(name, value string) Attrs {
	for i, kv := range a {
		if kv[0] == name {
			a[i][1] = value
			return a
		}
	}
	return append(a, [2]string{name, value})
}

func (a Attrs) Del(name string) Attrs {
	for i, kv := range a {
		if kv[0] == name {
			return append(a[:i], a[i+1:]...)
		}
	}
	return a
}

func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	cp := make(Attrs, len(a))
	copy(cp, a)
	return cp
}

// Equal compares name/value pairs in order.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
