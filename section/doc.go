// Package section holds the 832 assembler's output model: sections of
// emitted bytes, the symbols they declare, and the references they make.
//
// A section is filled by a driver through Declare*, Align and Emit*. Once
// every reference has been resolved, SizeReferences and AssignAddresses are
// run over all sections until no reference grows; the section can then be
// written as a relocatable object (WriteObject) or as part of a flat binary
// image (WriteImage).
//
// References that load a value with the `li` opcode take a variable number
// of bytes, one per six bits of payload, so their size depends on the
// addresses they help determine.
package section
