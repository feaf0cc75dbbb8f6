// Command semtrace checks sample descriptions, previews them as meshes and
// traces electron beam segments through their material regions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "semtrace:", err)
		stop()
		os.Exit(1)
	}
}
