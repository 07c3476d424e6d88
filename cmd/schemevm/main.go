// Command schemevm is the command-line interface to the bytecode VM: it
// assembles symbolic programs, disassembles persisted code objects, and
// runs them to completion.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
