// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/brainshift/config"
	"github.com/ezrec/brainshift/emulator"
	"github.com/ezrec/brainshift/translate"
	"github.com/ezrec/brainshift/vm"
)

func main() {
	var memory string
	var program string
	var configPath string
	var input string
	var output string
	var eof string
	var dump string
	var steps int
	var lenient bool
	var extensions bool
	var verbose bool
	var quiet bool
	var programSet bool

	flag.StringVar(&memory, "m", "", "Memory size in bytes, or an expression such as '64 * KB'")
	flag.StringVar(&program, "p", "", "Program text (default: the file argument, or stdin)")
	flag.StringVar(&configPath, "c", "", ".toml or .yaml configuration file")
	flag.StringVar(&input, "i", "-", "Program input")
	flag.StringVar(&output, "o", "-", "Program output")
	flag.StringVar(&eof, "eof", "", "End of input mode: zero, keep or error")
	flag.StringVar(&dump, "dump", "", "Write a CBOR machine snapshot to this file after the run")
	flag.IntVar(&steps, "steps", 0, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&lenient, "lenient", false, "Continue past unresolved labels and unmatched brackets")
	flag.BoolVar(&extensions, "x", false, "Enable the Z, z, j, n and '\"' instructions")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&quiet, "q", false, "Do not print the banner")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	cfg := config.Default()
	if len(configPath) != 0 {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("%v: %v", configPath, err)
		}
	}

	// Flags override the configuration file only when given.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "p":
			programSet = true
		case "m":
			cfg.Memory = config.Size(memory)
		case "eof":
			cfg.EOF = eof
		case "dump":
			cfg.Dump = dump
		case "steps":
			cfg.MaxSteps = steps
		case "lenient":
			cfg.Lenient = lenient
		case "x":
			cfg.Extensions = extensions
		case "v":
			cfg.Verbose = verbose
		}
	})

	err := cfg.Validate(emulator.Defines())
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	size, _ := cfg.MemorySize(emulator.Defines())
	mode, _ := cfg.EOFMode()

	var prog *vm.Program
	switch {
	case programSet:
		prog = vm.NewProgram(program)
	case flag.NArg() == 1:
		inf, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
		prog, err = vm.ReadProgram(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
	default:
		prog, err = vm.ReadProgram(os.Stdin)
		if err != nil {
			log.Fatalf("stdin: %v", err)
		}
	}

	if !quiet {
		p := translate.Printer()
		p.Fprintf(os.Stderr, "Memory Size: %d bytes\n", size)
		p.Fprintf(os.Stderr, "Program: %v\n", prog.Text)
	}

	emu, err := emulator.NewEmulator(size)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Verbose = cfg.Verbose
	emu.Lenient = cfg.Lenient
	emu.Extended = cfg.Extensions
	emu.EOF = mode
	emu.MaxSteps = cfg.MaxSteps

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Tape.Input = inf
	}

	var ouf io.Writer = os.Stdout
	if output != "-" {
		file, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer file.Close()
		ouf = file
	}
	out := bufio.NewWriter(ouf)
	emu.Tape.Output = out

	emu.Load(prog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := emu.Run(ctx)

	err = out.Flush()
	if err != nil {
		log.Printf("%v: %v", output, err)
	}

	if len(cfg.Dump) != 0 {
		data, err := emulator.MarshalSnapshot(emu.Snapshot())
		if err == nil {
			err = os.WriteFile(cfg.Dump, data, 0o644)
		}
		if err != nil {
			log.Printf("%v: %v", cfg.Dump, err)
		}
	}

	if runErr != nil {
		if cfg.Verbose {
			log.Print(emu.Machine.String())
		}
		log.Fatal(runErr)
	}
}
