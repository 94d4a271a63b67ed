// Package section stores portable type tables in WebAssembly custom sections.
//
// Embed appends a table to a core module or component, replacing any earlier
// section of the same name. Extract reads it back: core modules are compiled
// with wazero so that only well-formed modules yield a table, components are
// scanned directly.
//
//	out, err := section.Embed(module, section.DefaultName, table)
//	data, err := section.Extract(ctx, out, section.DefaultName)
package section
