// Command onyx is the CLI frontend for the Onyx bytecode compiler and VM:
// a REPL when given no arguments, a script interpreter when given one
// file path. The core (compiler + VM) never touches the terminal or the
// filesystem directly; that's this package's job.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/OmarAzizi/Onyx/internal/config"
	"github.com/OmarAzizi/Onyx/internal/vm"
)

const (
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
)

func main() {
	switch len(os.Args) {
	case 1:
		runRepl()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintln(os.Stderr, "Usage: onyx [path]")
		os.Exit(exitUsage)
	}
}

func newVM() *vm.VM {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "onyx.yaml: %v\n", err)
	}
	return vm.New(
		vm.WithMaxFrames(cfg.MaxFrames),
		vm.WithStackSize(cfg.StackSize),
		vm.WithTrace(cfg.Trace),
	)
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q.\n", filepath.Clean(path))
		os.Exit(74)
	}

	machine := newVM()
	switch machine.Interpret(string(source)) {
	case vm.InterpretCompileError:
		os.Exit(exitCompile)
	case vm.InterpretRuntimeError:
		os.Exit(exitRuntime)
	}
}

// runRepl reads one line at a time and interprets it as a complete
// program. It only prints the "> " prompt when stdin is an interactive
// terminal, so piped input behaves like a script file read line by line.
func runRepl() {
	machine := newVM()
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			if interactive {
				fmt.Println()
			}
			return
		}
		machine.Interpret(scanner.Text())
	}
}
