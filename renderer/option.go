// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package renderer

// option marks whether a value has ever been written. An all-zero matrix or
// rectangle is valid state, so the zero value can't double as "unset".
type option[T any] struct {
	isSet bool
	value T
}

func (opt *option[T]) set(v T) {
	opt.isSet = true
	opt.value = v
}

func (opt *option[T]) clear() {
	opt.isSet = false
	opt.value = *new(T)
}

func (opt option[T]) get() (T, bool) {
	return opt.value, opt.isSet
}
