package enums

import "fmt"

// QuantityPolicy decides how the cart treats a sub-minimum add quantity:
// silently clamp it to one, or reject the call with a validation error.
type QuantityPolicy string

const (
	QuantityPolicyClamp  QuantityPolicy = "clamp"
	QuantityPolicyReject QuantityPolicy = "reject"
)

var validQuantityPolicies = []QuantityPolicy{
	QuantityPolicyClamp,
	QuantityPolicyReject,
}

// String implements fmt.Stringer.
func (p QuantityPolicy) String() string {
	return string(p)
}

// IsValid reports whether the value matches a known QuantityPolicy.
func (p QuantityPolicy) IsValid() bool {
	for _, candidate := range validQuantityPolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseQuantityPolicy converts raw input into a QuantityPolicy.
func ParseQuantityPolicy(value string) (QuantityPolicy, error) {
	for _, candidate := range validQuantityPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quantity policy %q", value)
}
