package main

import (
	"fmt"
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/asm"
	"github.com/LittleGreyCells/escheme-compiled/internal/codec"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/spf13/cobra"
)

func newDisasmCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm FILE",
		Short: "Disassemble a persisted code object, recursing into nested closures and promises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("disasm: %w", err)
			}

			enc := codec.NewEncoding(nil, symtab.New())
			if err := enc.UnmarshalText(text); err != nil {
				return fmt.Errorf("disasm: %w", err)
			}

			out, err := asm.Decode(enc.Code)
			if err != nil {
				return fmt.Errorf("disasm: %w", err)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	return cmd
}
