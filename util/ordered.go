// util/ordered.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"iter"
	"slices"
)

// OrderedMap is a map that remembers insertion order. Iteration visits
// entries in the order in which their keys were first added; assigning
// to an existing key keeps its position.
type OrderedMap[K comparable, V any] struct {
	keys []K
	m    map[K]V
}

func (o *OrderedMap[K, V]) Set(k K, v V) {
	if o.m == nil {
		o.m = make(map[K]V)
	}
	if _, ok := o.m[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.m[k] = v
}

func (o *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := o.m[k]
	return v, ok
}

func (o *OrderedMap[K, V]) Has(k K) bool {
	_, ok := o.m[k]
	return ok
}

func (o *OrderedMap[K, V]) Delete(k K) {
	if _, ok := o.m[k]; !ok {
		return
	}
	delete(o.m, k)
	o.keys = slices.DeleteFunc(o.keys, func(kk K) bool { return kk == k })
}

func (o *OrderedMap[K, V]) Len() int {
	return len(o.keys)
}

func (o *OrderedMap[K, V]) Keys() []K {
	return slices.Clone(o.keys)
}

// Index returns the position of k in insertion order or -1.
func (o *OrderedMap[K, V]) Index(k K) int {
	return slices.Index(o.keys, k)
}

// At returns the i'th entry in insertion order.
func (o *OrderedMap[K, V]) At(i int) (K, V) {
	k := o.keys[i]
	return k, o.m[k]
}

func (o *OrderedMap[K, V]) Values() []V {
	v := make([]V, len(o.keys))
	for i, k := range o.keys {
		v[i] = o.m[k]
	}
	return v
}

func (o *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range o.keys {
			if !yield(k, o.m[k]) {
				return
			}
		}
	}
}

func (o *OrderedMap[K, V]) Clear() {
	o.keys = nil
	o.m = nil
}
