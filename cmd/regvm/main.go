// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"gitlab.com/efronlicht/enve"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/emulator"
	"github.com/ezrec/regvm/internal/expr"
	"github.com/ezrec/regvm/memory"
	"github.com/ezrec/regvm/rom"
)

// envLookup returns the parsed environment variable key, or backup if unset.
func envLookup[T any](parse func(string) (T, error), key string, backup T) (value T, err error) {
	if _, ok := os.LookupEnv(key); !ok {
		value = backup
		return
	}

	value, err = enve.Lookup(parse, key)
	if err != nil {
		err = fmt.Errorf("%v: %w", key, err)
	}
	return
}

// envOr is envLookup, fatal on a malformed value.
func envOr[T any](parse func(string) (T, error), key string, backup T) T {
	value, err := envLookup(parse, key, backup)
	if err != nil {
		log.Fatal(err)
	}
	return value
}

// demo seeds emu with the hello world data memory, registers, and program.
func demo(emu *emulator.Emulator) (length uint32, err error) {
	mem := emu.Cpu.Memory

	_, err = mem.Write(0x0000, []byte("Hello, World!"))
	if err != nil {
		return
	}
	_, err = mem.Write(0xbedb, []byte("I'm Chris!"))
	if err != nil {
		return
	}

	emu.Cpu.Register = cpu.RegisterFile{Value: [cpu.REG_COUNT]uint32{
		cpu.REG_R0: 0xdead,
		cpu.REG_R1: 0xbeef,
		cpu.REG_R2: 0xaaaa,
		cpu.REG_R3: 0xbbbb,
		cpu.REG_IP: 0x0000,
	}}

	prog := cpu.NewProgram(emulator.PROGRAM_SIZE)

	// MOV_LIT_REG 0x12121212 R1
	_, err = prog.Emit(cpu.OP_MOV_LIT_REG, 0x12121212, uint32(cpu.REG_R1))
	if err != nil {
		return
	}

	// STORE_LIT_MEM 0xffffffff 0x1234
	_, err = prog.Emit(cpu.OP_STORE_LIT_MEM, 0xffffffff, 0x1234)
	if err != nil {
		return
	}

	// RETURN
	_, err = prog.Emit(cpu.OP_RETURN)
	if err != nil {
		return
	}

	emu.Program = prog.Memory
	length = prog.Ip
	return
}

func main() {
	var program string
	var output string
	var compress bool
	var size string
	var start string
	var ticks string
	var verbose bool
	var quiet bool
	var registers [cpu.REG_IP]string

	flag.StringVar(&program, "p", "", "Program image to run (default: built-in demo)")
	flag.StringVar(&output, "o", "", "Save program image to file, do not execute")
	flag.BoolVar(&compress, "z", false, "Compress the saved program image")
	flag.StringVar(&size, "m", fmt.Sprintf("0x%x", envOr(expr.Parse, "REGVM_MEMORY_SIZE", uint32(emulator.MEMORY_SIZE))), "Data memory size")
	flag.StringVar(&start, "s", "0", "Start address (initial IP)")
	flag.StringVar(&ticks, "t", strconv.Itoa(envOr(strconv.Atoi, "REGVM_MAX_TICKS", 0)), "Maximum ticks, 0 for unlimited")
	flag.BoolVar(&verbose, "v", envOr(strconv.ParseBool, "REGVM_VERBOSE", false), "Verbose mode")
	flag.BoolVar(&quiet, "q", false, "Do not inspect memory and registers")
	for n := range cpu.REG_IP {
		reg := cpu.Register(n)
		flag.StringVar(&registers[n], reg.String(), "", fmt.Sprintf("Initial value of %v", reg))
	}

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	mem_size, err := expr.Parse(size)
	if err != nil {
		log.Fatalf("-m: %v", err)
	}

	emu := emulator.NewEmulator(mem_size)
	emu.Verbose = verbose

	eval := func(name string, text string) uint32 {
		value, err := expr.Eval(text, emu.Defines())
		if err != nil {
			log.Fatalf("-%v: %v", name, err)
		}
		return value
	}

	var length uint32
	if len(program) == 0 {
		length, err = demo(emu)
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
	} else {
		inf, err := os.Open(program)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		defer inf.Close()

		data, err := rom.Load(inf)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
		length = uint32(len(data))

		emu.Program = memory.NewMemory(max(length, emulator.PROGRAM_SIZE))
		_, err = emu.Program.Write(0, data)
		if err != nil {
			log.Fatalf("%v: %v", program, err)
		}
	}

	if len(output) != 0 {
		data, err := rom.Image(emu.Program, length)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		err = rom.Save(ouf, data, compress)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	for n, text := range registers {
		if len(text) != 0 {
			reg := cpu.Register(n)
			emu.Cpu.Register.Set(reg, eval(reg.String(), text))
		}
	}
	emu.Start = eval("s", start)
	emu.MaxTicks = int(eval("t", ticks))

	if !quiet {
		fmt.Print(emu.Cpu.Memory.Inspect())
		fmt.Print(emu.Cpu.String())
		fmt.Println("Program:")
		fmt.Print(cpu.Disassemble(emu.Program, emu.Start, length))
		fmt.Println()
	}

	result, err := emu.Run()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("R0: 0x%04x\n", result)

	if !quiet {
		fmt.Print(emu.Cpu.Memory.Inspect())
		fmt.Print(emu.Cpu.String())
	}
}
