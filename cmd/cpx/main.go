// cpx copies files and merges directories, preferring copy-on-write clones
// and falling back to an interruptible streaming copy.
package main

import (
	"os"

	"mvx/internal/cli"
	"mvx/internal/engine"
)

func main() {
	os.Exit(cli.Main(engine.Copy))
}
