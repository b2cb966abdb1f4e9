package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// repl reads commands until EOF. A readline prompt is used when in is a
// terminal, otherwise lines are read as a script.
func repl(env *env, in *os.File) error {
	if !term.IsTerminal(int(in.Fd())) {
		return script(env, in, os.Stdout)
	}
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := env.eval(line)
		printResult(os.Stdout, result, err)
	}
}

func script(env *env, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := env.eval(line)
		printResult(w, result, err)
	}
	return scanner.Err()
}

func printResult(w io.Writer, result string, err error) {
	switch {
	case err != nil:
		fmt.Fprintln(w, err)
	case result != "":
		fmt.Fprintln(w, result)
	}
}
