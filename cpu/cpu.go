package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/regvm/internal"
	"github.com/ezrec/regvm/memory"
)

// Cpu is the interpreter state: a register file and the data memory
// that instructions operate on.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register RegisterFile  // Register bank, including the IP.
	Memory   *memory.Memory // Data memory.

	Ticks int // Instructions executed.
}

// NewCpu creates a new CPU over data memory, with the registers
// set to their initial values.
func NewCpu(mem *memory.Memory, registers RegisterFile) (cpu *Cpu) {
	cpu = &Cpu{
		Register: registers,
		Memory:   mem,
	}

	return
}

// Defines for the cpu: opcode and register names.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	opcodes := map[string]string{}
	for op, def := range definitions {
		opcodes[def.Name] = fmt.Sprintf("0x%02x", uint8(op))
	}

	registers := map[string]string{}
	for n, name := range _register_name {
		registers[strings.ToUpper(name)] = fmt.Sprintf("%d", n)
		registers[name] = fmt.Sprintf("%d", n)
	}

	return internal.IterSeq2Concat(maps.All(opcodes), maps.All(registers))
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() string {
	return cpu.Register.String()
}

// Fetch decodes the instruction at IP from program, advancing IP past it.
func (cpu *Cpu) Fetch(program *memory.Memory) (inst Instruction, err error) {
	inst, err = decode(program, &cpu.Register.Value[REG_IP])
	return
}

// Execute executes a single decoded instruction.
// done is set if the instruction halts the CPU.
func (cpu *Cpu) Execute(inst Instruction) (done bool, err error) {
	def, err := Lookup(uint8(inst.Opcode))
	if err != nil {
		return
	}

	err = def.check(inst.Operands)
	if err != nil {
		err = errors.Join(ErrOpcode(inst.Opcode), err)
		return
	}

	err = def.exec(cpu, inst.Operands)
	if err != nil {
		err = errors.Join(ErrOpcode(inst.Opcode), err)
		return
	}

	cpu.Ticks += 1
	done = def.Halt

	return
}

// Step fetches and executes one instruction from program.
// Any error is an ErrFault at the address of the failing instruction.
func (cpu *Cpu) Step(program *memory.Memory) (done bool, err error) {
	ip := cpu.Register.Get(REG_IP)
	defer func() {
		if err != nil {
			if cpu.Verbose {
				log.Printf("cpu: %08x: %v", ip, err)
			}
			err = ErrFault{Ip: ip, Err: err}
		}
	}()

	inst, err := cpu.Fetch(program)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %08x: %v", ip, inst)
	}

	done, err = cpu.Execute(inst)
	return
}

// Run executes program starting at start, until a halting instruction
// or an error. The result is the value of the result register.
//
// Registers and data memory are not reset; a second Run continues from
// the state left by the first.
func (cpu *Cpu) Run(program *memory.Memory, start uint32) (result uint32, err error) {
	cpu.Register.Set(REG_IP, start)

	for {
		var done bool
		done, err = cpu.Step(program)
		if err != nil {
			return
		}
		if done {
			break
		}
	}

	result = cpu.Register.Get(REG_RESULT)
	return
}
