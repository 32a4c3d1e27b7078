package webscraper

// Value is the result of an extraction. A Value is either found, in which
// case it carries a string that may legitimately be empty, or absent.
// The zero Value is absent.
type Value struct {
	s  string
	ok bool
}

// Found returns a present Value holding s.
func Found(s string) Value {
	return Value{s: s, ok: true}
}

// Get returns the held string and whether the value was found.
func (v Value) Get() (string, bool) {
	return v.s, v.ok
}

// OK reports whether the value was found.
func (v Value) OK() bool {
	return v.ok
}

// String returns the held string, or "" when the value is absent.
func (v Value) String() string {
	return v.s
}

// Or returns the held string, or def when the value is absent.
func (v Value) Or(def string) string {
	if !v.ok {
		return def
	}
	return v.s
}
