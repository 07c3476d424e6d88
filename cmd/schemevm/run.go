package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/codec"
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/image"
	"github.com/LittleGreyCells/escheme-compiled/internal/vm"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
	"github.com/spf13/cobra"
)

func newRunCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Load a persisted code object and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			m := vmcore.New(cfg.machineOpts()...)
			image.Bootstrap(m.Symbols)

			enc := codec.NewEncoding(nil, m.Symbols)
			if err := enc.UnmarshalText(text); err != nil {
				return fmt.Errorf("run: %w", err)
			}

			v := vm.New(vm.WithMachine(m))
			defer v.Close()

			env := heap.NewEnvironment(heap.NewFrame(0, heap.Null), nil)
			val, err := v.Run(context.Background(), env, enc.Code)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), val)
			return err
		},
	}
	return cmd
}
