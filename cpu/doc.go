// Package cpu implements the interpreter for the regvm register machine.
//
// The CPU consists of an instruction pointer (IP) and four 32-bit
// general-purpose registers (r0-r3). Instructions are fetched from a program
// memory, and their side effects target a separate data memory.
//
// Each instruction is a one byte opcode followed by fixed width, little-endian
// operand fields. The operand layout of every opcode is described by its
// Definition, which the decoder consults generically.
package cpu
