// Command trafficsim-repl is an interactive shell over one in-memory
// Core: readline history/completion plus a small text command language,
// the same shape as this codebase's own headless game REPL.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default: ./trafficsim.yaml)")
	levelNum := flag.Int("level", 0, "built-in starter level to load if no save exists yet")
	seed := flag.Int64("seed", 1, "deterministic RNG seed")
	flag.Parse()

	shell, err := NewShell(*cfgFile, *levelNum, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "trafficsim-repl:", err)
		os.Exit(1)
	}
	defer shell.Close()

	color.Cyan("trafficsim-repl — type 'help' for commands, 'quit' to exit")

	for _, cmd := range flag.Args() {
		fmt.Printf("> %s\n", cmd)
		fmt.Println(shell.Execute(cmd))
	}

	startREPL(shell)
}

func startREPL(shell *Shell) {
	for {
		line, err := shell.readline.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result := shell.Execute(line)
		if result == resultQuit {
			return
		}
		fmt.Println(result)
	}
}
