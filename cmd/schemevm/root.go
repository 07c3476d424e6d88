package main

import (
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/log"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
	"github.com/spf13/cobra"
)

// config carries the ambient options cobra's persistent flags fill in,
// mapped to vmcore.OptionFn values that configure a fresh machine.
type config struct {
	debug      bool
	stackDepth int
}

func (c *config) logger() *log.Logger {
	if c.debug {
		log.LogLevel.Set(log.Debug)
	}
	return log.DefaultLogger()
}

func (c *config) machineOpts() []vmcore.OptionFn {
	opts := []vmcore.OptionFn{vmcore.WithLogger(c.logger())}
	if c.stackDepth > 0 {
		opts = append(opts, vmcore.WithStackDepth(c.stackDepth))
	}
	return opts
}

func newRootCmd() *cobra.Command {
	cfg := &config{}

	root := &cobra.Command{
		Use:           "schemevm",
		Short:         "Assemble, disassemble and run register-VM bytecode",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().BoolVar(&cfg.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().IntVar(&cfg.stackDepth, "stack-depth", 0,
		"capacity of the reg/arg/int stacks (0 uses the built-in default)")

	root.AddCommand(newAsmCmd(cfg), newDisasmCmd(cfg), newRunCmd(cfg))

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	return root
}
