package types

// Color is a named display color attached to a product variant. Name is the
// identity used by filters and cart line-item keys; Hex is presentation-only.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}
