package main

import (
	"fmt"
	"os"
)

// main follows §6's exit code contract: 0 on success, 1 on any fatal
// diagnostic from the CLI layer or the pipeline driver.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jsqueeze:", err)
		os.Exit(1)
	}
}
