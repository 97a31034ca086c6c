package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/erraggy/docschema/internal/config"
	"github.com/erraggy/docschema/internal/mcpserver"
)

// MCPFlags contains flags for the mcp command
type MCPFlags struct {
	Config string
}

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() (*flag.FlagSet, *MCPFlags) {
	fs := newFlagSet("mcp")
	flags := &MCPFlags{}

	fs.StringVarP(&flags.Config, "config", "c", "", "configuration file (default "+config.FileName+" when present)")

	fs.Usage = func() {
		Writef(stderr, "Usage: docschema mcp [flags]\n\n")
		Writef(stderr, "Serve the validate_json, infer_schema, check_docs and list_resources tools\n")
		Writef(stderr, "over the Model Context Protocol on stdin/stdout.\n\n")
		Writef(stderr, "Flags:\n")
		fs.PrintDefaults()
		Writef(stderr, "\nEnvironment:\n")
		Writef(stderr, "  DOCSCHEMA_CACHE_ENABLED, DOCSCHEMA_CACHE_TTL, DOCSCHEMA_RESULT_LIMIT,\n")
		Writef(stderr, "  DOCSCHEMA_MAX_FETCH_SIZE, DOCSCHEMA_ALLOW_PRIVATE_IPS and the validation\n")
		Writef(stderr, "  settings read by every command.\n")
	}

	return fs, flags
}

// HandleMCP executes the mcp command. It blocks until the client disconnects
// or the process is interrupted.
func HandleMCP(args []string) error {
	fs, flags := SetupMCPFlags()
	if help, err := parseArgs(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx, cfg)
}
