// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

package fingerprint

import (
	"io"
	"strconv"
)

type Int int

func (i Int) Hash(h *Hasher) error {
	_, err := io.WriteString(h.hash, strconv.Itoa(int(i)))
	return err
}

// List hashes its length, followed by its items in order.
type List[T Hashable] []T

func (l List[T]) Hash(h *Hasher) error {
	list := make([]Hashable, len(l)+1)
	list[0] = Int(len(l))
	for idx, val := range l {
		list[idx+1] = val
	}

	return h.Named("list", list...)
}

type String string

func (s String) Hash(h *Hasher) error {
	_, err := io.WriteString(h.hash, string(s))
	return err
}

// Cast converts each element of slice into a [Hashable] value.
func Cast[E any, T ~[]E, H Hashable](slice T, fn func(E) H) List[H] {
	res := make(List[H], len(slice))
	for idx, val := range slice {
		res[idx] = fn(val)
	}
	return res
}
