// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package yaml binds [github.com/goccy/go-yaml] decoders to a
// [context.Context], so that node unmarshalers can decode nested nodes with the
// options of the top-level decoder.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

type decoderContextKey struct{}

type (
	Decoder                = yaml.Decoder
	NodeUnmarshalerContext = yaml.NodeUnmarshalerContext
)

// NewDecoderContext creates a new [yaml.Decoder] and binds it to the given
// [context.Context].
func NewDecoderContext(ctx context.Context, rd io.Reader, opts ...yaml.DecodeOption) (context.Context, *yaml.Decoder) {
	dec := yaml.NewDecoder(rd, opts...)
	return context.WithValue(ctx, decoderContextKey{}, dec), dec
}

// UnmarshalContext unmarshals from the given reader.
func UnmarshalContext(ctx context.Context, rd io.Reader, val any, opts ...yaml.DecodeOption) error {
	ctx, dec := NewDecoderContext(ctx, rd, opts...)
	return dec.DecodeContext(ctx, val)
}

// NodeToValueContext unmarshals from the given node.
func NodeToValueContext(ctx context.Context, node ast.Node, val any) error {
	dec, _ := ctx.Value(decoderContextKey{}).(*yaml.Decoder)
	if dec == nil {
		var buf bytes.Buffer
		dec = yaml.NewDecoder(&buf)
	}
	return dec.DecodeFromNodeContext(ctx, node, val)
}

// Singleton decodes a mapping with exactly one key, such as `{ exact: int }`,
// returning its key and value.
func Singleton(ctx context.Context, node ast.Node) (key string, value ast.Node, err error) {
	var pair *ast.MappingValueNode
	switch node := node.(type) {
	case *ast.MappingNode:
		if len(node.Values) == 1 {
			pair = node.Values[0]
		}
	case *ast.MappingValueNode:
		pair = node
	}
	if pair == nil {
		return "", nil, errors.New("not a singleton mapping")
	}

	if err = NodeToValueContext(ctx, pair.Key, &key); err != nil {
		return "", nil, err
	}
	return key, pair.Value, nil
}

// Encode writes the YAML representation of val to w, indenting sequences
// within their parent mapping.
func Encode(w io.Writer, val any) error {
	enc := yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true))
	if err := enc.Encode(val); err != nil {
		return err
	}
	return enc.Close()
}
