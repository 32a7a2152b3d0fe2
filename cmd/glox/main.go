// Command glox is a tree-walking interpreter for the Lox language: run it
// with a script path to execute a file, or with no arguments to open a
// REPL.
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/gloxlang/glox/internal/lox"
)

func main() {
	args := os.Args[1:]

	verbose := false
	var script string
	for _, arg := range args {
		if arg == "--ast" {
			verbose = true
			continue
		}
		if script != "" {
			fmt.Println("Usage: glox [--ast] [script]")
			os.Exit(64)
		}
		script = arg
	}

	reporter := lox.NewSimpleReporter(os.Stderr)
	interpreter := lox.NewInterpreter(os.Stdout, reporter, script == "")

	if script == "" {
		runPrompt(interpreter, reporter, verbose)
		return
	}
	runFile(script, interpreter, reporter, verbose)
}

func run(source string, interpreter *lox.Interpreter, reporter lox.Reporter, verbose bool) {
	scanner := lox.NewScanner([]rune(source), reporter)
	tokens := scanner.Scan()

	parser := lox.NewParser(tokens, reporter)
	statements := parser.Parse()
	if reporter.HadError() {
		return
	}

	resolver := lox.NewResolver(interpreter, reporter)
	resolver.Resolve(statements)
	if reporter.HadError() {
		return
	}

	if verbose {
		if sr, ok := reporter.(*lox.SimpleReporter); ok {
			printer := &lox.AstPrinter{}
			for _, stmt := range statements {
				if exprStmt, ok := stmt.(*lox.ExprStmt); ok {
					sr.Logger().Debug(printer.Print(exprStmt.Expr))
				}
			}
		}
	}

	interpreter.Interpret(statements)
}

// runPrompt runs an interactive REPL over stdin/stdout using liner for line
// editing and a persisted history file. The same interpreter instance is
// reused across every line, so global bindings from earlier lines stay
// visible.
func runPrompt(interpreter *lox.Interpreter, reporter lox.Reporter, verbose bool) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := historyFilePath()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	for {
		text, err := line.Prompt("> ")
		if err != nil {
			break
		}
		line.AppendHistory(text)
		run(text, interpreter, reporter, verbose)
		reporter.Reset()
	}

	if f, err := os.Create(historyPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".glox_history"
	}
	return filepath.Join(home, ".glox_history")
}

// runFile reads path as a script, runs it once, and exits with a status
// reflecting whether a static or runtime error occurred.
func runFile(path string, interpreter *lox.Interpreter, reporter lox.Reporter, verbose bool) {
	source, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	run(string(source), interpreter, reporter, verbose)

	if reporter.HadError() {
		os.Exit(65)
	}
	if reporter.HadRuntimeError() {
		os.Exit(70)
	}
}
