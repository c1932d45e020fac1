// Copyright 2024 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package mem

import (
	"cmp"
	"iter"
	"sort"

	"golang.org/x/exp/constraints"
)

// SortedMap is a map kept as a sorted slice in an arena. It suits small key
// sets that are mostly read, such as per-program state.
type SortedMap[K constraints.Ordered, V any] struct {
	entries []sortedMapEntry[K, V]
}

type sortedMapEntry[K constraints.Ordered, V any] struct {
	key   K
	value V
}

func (m *SortedMap[K, V]) search(key K) (int, bool) {
	return sort.Find(len(m.entries), func(i int) int {
		return cmp.Compare(key, m.entries[i].key)
	})
}

func (m *SortedMap[K, V]) Insert(a *Arena, key K, value V) {
	idx, ok := m.search(key)
	if ok {
		m.entries[idx].value = value
		return
	}
	m.entries = insert(a, m.entries, idx, sortedMapEntry[K, V]{key, value})
}

func (m *SortedMap[K, V]) Get(key K) (V, bool) {
	if idx, ok := m.search(key); ok {
		return m.entries[idx].value, true
	}
	return *new(V), false
}

func (m *SortedMap[K, V]) Len() int { return len(m.entries) }

// All yields entries in ascending key order.
func (m *SortedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range m.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

func insert[S ~[]E, E any](a *Arena, s S, i int, v E) S {
	if i == len(s) {
		return Append(a, s, v)
	}
	s = grow(a, s, 1)
	s = s[:len(s)+1]
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
