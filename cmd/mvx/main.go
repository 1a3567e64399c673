// mvx moves files and merges directories, preferring atomic renames on the
// same device and falling back to an interruptible streaming copy.
package main

import (
	"os"

	"mvx/internal/cli"
	"mvx/internal/engine"
)

func main() {
	os.Exit(cli.Main(engine.Move))
}
