// Package linker combines 832 sections into a flat image.
//
// Linking runs in sequence: sections are loaded (or added directly by an
// assembler driver), references are resolved against each section's own
// declarations and then against global declarations, sections unreachable
// from the first section and the constructor/destructor tables are pruned,
// BSS is ordered last, and layout is repeated until no reference grows.
package linker
