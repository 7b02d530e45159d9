// internal/appshell/shell.go
package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"phrasex/internal/runutil"
)

type runFunc func(context.Context, []string, io.Writer, io.Writer) int

// Main runs a tool entry point with a context cancelled on SIGINT/SIGTERM
// and exits the process with its code. No arguments prints help.
func Main(run runFunc) { main(run, true) }

// MainStdin is Main for filters that read stdin when given no arguments.
func MainStdin(run runFunc) { main(run, false) }

func main(run runFunc, helpOnEmpty bool) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	argv := os.Args[1:]
	if len(argv) == 0 && helpOnEmpty {
		argv = []string{"-h"}
	}

	code := run(ctx, argv, os.Stdout, os.Stderr)
	// Normalize cancellation exit code.
	if ctx.Err() != nil && code == runutil.ExitOK {
		code = runutil.ExitCanceled
	}

	stop()
	os.Exit(code)
}
