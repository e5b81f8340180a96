package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/ezrec/regvm/memory"
)

// Opcode is the one byte tag of an instruction.
type Opcode uint8

const (
	OP_RETURN        = Opcode(0x01) // RETURN
	OP_MOV_LIT_REG   = Opcode(0x10) // MOV_LIT_REG
	OP_MOV_REG_REG   = Opcode(0x11) // MOV_REG_REG
	OP_MOV_REG_MEM   = Opcode(0x12) // MOV_REG_MEM
	OP_MOV_MEM_REG   = Opcode(0x13) // MOV_MEM_REG
	OP_STORE_LIT_MEM = Opcode(0x14) // STORE_LIT_MEM
	OP_ADD_REG_REG   = Opcode(0x15) // ADD_REG_REG
	OP_JMP_NOT_EQ    = Opcode(0x16) // JMP_NOT_EQ
)

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	def, ok := definitions[op]
	if !ok {
		return fmt.Sprintf("OP_%02X", uint8(op))
	}
	return def.Name
}

// Field is the role of an operand field.
type Field int

const (
	FIELD_LIT32  = Field(0) // lit
	FIELD_ADDR32 = Field(1) // addr
	FIELD_REG8   = Field(2) // reg
)

// Width returns the encoded size of the field in bytes.
func (field Field) Width() uint32 {
	switch field {
	case FIELD_LIT32, FIELD_ADDR32:
		return 4
	case FIELD_REG8:
		return 1
	}
	panic("unknown field")
}

// String returns the name of the field role.
func (field Field) String() string {
	switch field {
	case FIELD_LIT32:
		return "lit"
	case FIELD_ADDR32:
		return "addr"
	case FIELD_REG8:
		return "reg"
	}
	return fmt.Sprintf("field(%d)", int(field))
}

// Definition describes the operand layout and effect of an opcode.
type Definition struct {
	Name   string  // Mnemonic.
	Fields []Field // Operand fields, in encoded order.
	Halt   bool    // Set if the opcode stops the CPU.

	exec func(cpu *Cpu, args []uint32) error
}

// Length returns the encoded length of the instruction, including the opcode.
func (def *Definition) Length() (length uint32) {
	length = 1
	for _, field := range def.Fields {
		length += field.Width()
	}
	return
}

// check validates operand values against the field layout.
func (def *Definition) check(args []uint32) (err error) {
	if len(args) != len(def.Fields) {
		err = ErrOperandCount
		return
	}

	for n, field := range def.Fields {
		if field != FIELD_REG8 {
			continue
		}
		_, err = RegisterOf(args[n])
		if err != nil {
			err = errors.Join(ErrInvalidRegister, err)
			return
		}
	}

	return
}

// definitions is the table of all known opcodes.
var definitions = map[Opcode]*Definition{
	OP_RETURN: {
		Name: "RETURN",
		Halt: true,
		exec: func(cpu *Cpu, args []uint32) error { return nil },
	},
	OP_MOV_LIT_REG: {
		Name:   "MOV_LIT_REG",
		Fields: []Field{FIELD_LIT32, FIELD_REG8},
		exec: func(cpu *Cpu, args []uint32) error {
			cpu.Register.Set(Register(args[1]), args[0])
			return nil
		},
	},
	OP_MOV_REG_REG: {
		Name:   "MOV_REG_REG",
		Fields: []Field{FIELD_REG8, FIELD_REG8},
		exec: func(cpu *Cpu, args []uint32) error {
			cpu.Register.Set(Register(args[1]), cpu.Register.Get(Register(args[0])))
			return nil
		},
	},
	OP_MOV_REG_MEM: {
		Name:   "MOV_REG_MEM",
		Fields: []Field{FIELD_REG8, FIELD_ADDR32},
		exec: func(cpu *Cpu, args []uint32) (err error) {
			_, err = cpu.Memory.Write32(args[1], cpu.Register.Get(Register(args[0])))
			return
		},
	},
	OP_MOV_MEM_REG: {
		Name:   "MOV_MEM_REG",
		Fields: []Field{FIELD_ADDR32, FIELD_REG8},
		exec: func(cpu *Cpu, args []uint32) (err error) {
			value, err := cpu.Memory.Read32(args[0])
			if err != nil {
				return
			}
			cpu.Register.Set(Register(args[1]), value)
			return
		},
	},
	OP_STORE_LIT_MEM: {
		Name:   "STORE_LIT_MEM",
		Fields: []Field{FIELD_LIT32, FIELD_ADDR32},
		exec: func(cpu *Cpu, args []uint32) (err error) {
			_, err = cpu.Memory.Write32(args[1], args[0])
			return
		},
	},
	OP_ADD_REG_REG: {
		Name:   "ADD_REG_REG",
		Fields: []Field{FIELD_REG8, FIELD_REG8},
		exec: func(cpu *Cpu, args []uint32) error {
			dst, src := Register(args[0]), Register(args[1])
			cpu.Register.Set(dst, cpu.Register.Get(dst)+cpu.Register.Get(src))
			return nil
		},
	},
	OP_JMP_NOT_EQ: {
		Name:   "JMP_NOT_EQ",
		Fields: []Field{FIELD_LIT32, FIELD_ADDR32},
		exec: func(cpu *Cpu, args []uint32) error {
			if cpu.Register.Get(REG_R0) != args[0] {
				cpu.Register.Set(REG_IP, args[1])
			}
			return nil
		},
	},
}

// Lookup returns the definition of an opcode byte.
func Lookup(op uint8) (def *Definition, err error) {
	def, ok := definitions[Opcode(op)]
	if !ok {
		err = errors.Join(ErrIllegalInstruction, ErrOpcode(op))
		return
	}

	return
}

// ParseOpcode looks up an opcode by mnemonic, ignoring case.
func ParseOpcode(name string) (op Opcode, err error) {
	for code, def := range definitions {
		if strings.EqualFold(name, def.Name) {
			op = code
			return
		}
	}

	err = ErrIllegalInstruction
	return
}

// Instruction is a decoded opcode and its operands.
type Instruction struct {
	Ip       uint32   // Address of the opcode byte.
	Opcode   Opcode   // Opcode.
	Operands []uint32 // Operand values, in encoded order.
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	words := []string{inst.Opcode.String()}

	def, ok := definitions[inst.Opcode]
	for n, arg := range inst.Operands {
		field := FIELD_LIT32
		if ok && n < len(def.Fields) {
			field = def.Fields[n]
		}
		switch field {
		case FIELD_REG8:
			words = append(words, Register(arg).String())
		case FIELD_ADDR32:
			words = append(words, fmt.Sprintf("[0x%04x]", arg))
		default:
			words = append(words, fmt.Sprintf("0x%x", arg))
		}
	}

	return strings.Join(words, " ")
}

// Encode an instruction to its byte form.
func Encode(op Opcode, operands ...uint32) (code []byte, err error) {
	def, err := Lookup(uint8(op))
	if err != nil {
		return
	}

	err = def.check(operands)
	if err != nil {
		err = errors.Join(ErrOpcode(op), err)
		return
	}

	code = make([]byte, 0, def.Length())
	code = append(code, uint8(op))
	for n, field := range def.Fields {
		switch field {
		case FIELD_LIT32, FIELD_ADDR32:
			code = binary.LittleEndian.AppendUint32(code, operands[n])
		case FIELD_REG8:
			code = append(code, uint8(operands[n]))
		}
	}

	return
}

// decode reads an instruction from program at *ip, advancing *ip past
// every byte consumed. On error *ip is left after the last byte read.
func decode(program *memory.Memory, ip *uint32) (inst Instruction, err error) {
	inst.Ip = *ip

	op, err := program.Read8(*ip)
	if err != nil {
		return
	}
	*ip += 1
	inst.Opcode = Opcode(op)

	def, err := Lookup(op)
	if err != nil {
		return
	}

	inst.Operands = make([]uint32, len(def.Fields))
	for n, field := range def.Fields {
		var value uint32
		switch field {
		case FIELD_LIT32, FIELD_ADDR32:
			value, err = program.Read32(*ip)
		case FIELD_REG8:
			var value8 uint8
			value8, err = program.Read8(*ip)
			value = uint32(value8)
		}
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
			return
		}
		*ip += field.Width()
		inst.Operands[n] = value
	}

	err = def.check(inst.Operands)
	if err != nil {
		err = errors.Join(ErrOpcode(op), err)
		return
	}

	return
}

// Decode the instruction at address in program.
func Decode(program *memory.Memory, address uint32) (inst Instruction, err error) {
	ip := address
	inst, err = decode(program, &ip)
	return
}

// Disassemble renders the instructions in program from start up to end.
// Undecodable bytes are shown one at a time. end is clamped to the size of
// program.
func Disassemble(program *memory.Memory, start uint32, end uint32) string {
	var text strings.Builder

	end = min(end, program.Size())

	ip := start
	for ip < end {
		here := ip
		inst, err := decode(program, &ip)
		if err != nil {
			op, rerr := program.Read8(here)
			if rerr != nil {
				break
			}
			fmt.Fprintf(&text, "%04X_%04X: .byte 0x%02x ; %v\n", here>>16, here&0xffff, op, f("undecodable"))
			ip = here + 1
			continue
		}
		fmt.Fprintf(&text, "%04X_%04X: %v\n", here>>16, here&0xffff, inst)
	}

	return text.String()
}
