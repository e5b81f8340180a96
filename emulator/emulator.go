// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"maps"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/internal"
	"github.com/ezrec/regvm/memory"
)

const (
	PROGRAM_SIZE = 0x1000 // Default program memory size.
	MEMORY_SIZE  = 0xbeef // Default data memory size.
)

var _emulator_defines = map[string]string{
	"PROGRAM_SIZE": "0x1000",
}

// Emulator state. CPU + data memory + program.
type Emulator struct {
	Verbose  bool           // If set, enables verbose logging.
	*cpu.Cpu                // Reference to the CPU simulation.
	Program  *memory.Memory // Program memory instructions are fetched from.
	Start    uint32         // Address execution begins at.
	MaxTicks int            // If non-zero, the most instructions Run executes.
}

// NewEmulator creates a new emulator with size bytes of data memory
// and an empty program.
func NewEmulator(size uint32) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(memory.NewMemory(size), cpu.RegisterFile{}),
		Program: memory.NewMemory(PROGRAM_SIZE),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Cpu.Memory.Defines(),
	)
}

// Reset sets the IP to the start address, and clears the tick counter.
// Registers other than the IP and data memory are left as they are.
func (emu *Emulator) Reset() {
	emu.Cpu.Register.Set(cpu.REG_IP, emu.Start)
	emu.Cpu.Ticks = 0

	if emu.Verbose {
		log.Printf("emulator: reset, start at 0x%08x", emu.Start)
	}
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint32 {
	return emu.Cpu.Register.Get(cpu.REG_IP)
}

// Code returns the instruction at the current instruction pointer.
func (emu *Emulator) Code() (inst cpu.Instruction, err error) {
	return cpu.Decode(emu.Program, emu.Ip())
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Ip()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, Ticks: emu.Cpu.Ticks, Err: err}
		}
	}()

	done, err = emu.Cpu.Step(emu.Program)
	if err != nil {
		return
	}

	if done && emu.Verbose {
		log.Printf("emulator: halt at 0x%08x after %d ticks, memory %x", emu.Ip(), emu.Cpu.Ticks, emu.Cpu.Memory.Digest())
	}

	return
}

// Run resets the emulator, and ticks until the program halts.
// The result is the value of the result register.
func (emu *Emulator) Run() (result uint32, err error) {
	emu.Reset()

	for done := false; !done; {
		if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
			err = &ErrRuntime{Ip: emu.Ip(), Ticks: emu.Cpu.Ticks, Err: ErrTickLimit}
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	result = emu.Cpu.Register.Get(cpu.REG_RESULT)
	return
}
