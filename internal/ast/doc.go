// Package ast defines the untyped syntax tree handed over by the parser.
//
// Nodes are plain tagged structs so that a unit can be exchanged as msgpack
// (.chadast) or YAML (.chad.yaml) without a custom codec. Every node carries
// a source.Span; the loader stamps the owning FileID after decoding.
package ast
