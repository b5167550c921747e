// Package document reads files into values the engine can walk and writes
// them back.
//
// The text format treats the whole file as one string, so every byte outside
// a span survives a round trip. The structured formats (JSON, YAML, TOML and
// CBOR) decode into mappings and sequences; JSON and YAML keep key order.
package document
