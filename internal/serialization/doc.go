// Package serialization saves and loads named parameter tensors in the
// SafeTensors format:
//
//	[8 bytes: header size (uint64 LE)]
//	[header: JSON, space-padded to a multiple of 8 bytes]
//	[tensor data: little-endian, tensors in name order]
//
// The header maps each tensor name to its dtype, shape and byte range in
// the data section. The optional "__metadata__" entry holds free-form
// string pairs; Write stores a SHA-256 of the data section there, and
// Decode verifies it when present.
//
// Example usage:
//
//	// Save the parameters of a chain
//	err := serialization.WriteFile("xor.safetensors", chain.Parameters(), map[string]string{"epochs": "2000"})
//
//	// Load them back
//	f, err := serialization.ReadFile("xor.safetensors")
//	params, err := serialization.ReadStateDict[float64](f)
//	err = chain.LoadParameters(params)
package serialization
