package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/docschema"
	"github.com/erraggy/docschema/cmd/docschema/commands"
)

// commandNames lists every subcommand, used for typo suggestions.
var commandNames = []string{"check", "validate", "infer", "export", "scenario", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	var handler func([]string) error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("docschema v%s\n", docschema.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "check":
		handler = commands.HandleCheck
	case "validate":
		handler = commands.HandleValidate
	case "infer":
		handler = commands.HandleInfer
	case "export":
		handler = commands.HandleExport
	case "scenario":
		handler = commands.HandleScenario
	case "mcp":
		handler = commands.HandleMCP
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err := handler(os.Args[2:]); err != nil {
		if !errors.Is(err, commands.ErrValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "" when none is.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`docschema - Documentation payload schema tools

Usage:
  docschema <command> [options]

Commands:
  check       Validate every annotated block of a documentation set
  validate    Validate a JSON payload against a documented resource
  infer       Infer a resource schema from a JSON example
  export      Export documented resources as JSON Schema
  scenario    Run txtar regression archives
  mcp         Serve the tools over the Model Context Protocol (stdio)
  version     Show version information
  help        Show this help message

Examples:
  docschema check docs/
  docschema validate --type microsoft.graph.user --docs docs/ payload.json
  docschema infer --type microsoft.graph.user example.json
  docschema export --docs docs/ --out schemas/
  docschema scenario testdata/

Settings are read from .docschema.yaml and DOCSCHEMA_* environment variables;
command line flags take precedence.

Run 'docschema <command> --help' for more information on a command.`)
}
