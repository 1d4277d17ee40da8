// Package internal holds helpers shared between alu86 packages.
package internal

import (
	"iter"
	"strings"
)

// Named is a name and value pair kept in declaration order.
type Named[T any] struct {
	Name  string
	Value T
}

// IterNamed iterates over a slice of Named values, in order.
func IterNamed[T any](list []Named[T]) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, item := range list {
			if !yield(item.Name, item.Value) {
				return
			}
		}
	}
}

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// Lookup returns the first value in seq whose key matches, ignoring case.
func Lookup[T any](seq iter.Seq2[string, T], name string) (value T, ok bool) {
	for key, val := range seq {
		if strings.EqualFold(key, name) {
			return val, true
		}
	}
	return
}
