package go_stripe

import "github.com/stremovskyy/go-stripe/internal/utils"

// Ref returns a pointer to a copy of value. Use it to set optional params:
//
//	params.Locale = go_stripe.Ref(checkout.LocaleFR)
func Ref[T any](value T) *T {
	return utils.Ref(value)
}

// Deref returns the value behind p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	return utils.Ptr(p)
}
