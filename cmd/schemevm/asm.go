package main

import (
	"fmt"
	"os"

	"github.com/LittleGreyCells/escheme-compiled/internal/asm"
	"github.com/LittleGreyCells/escheme-compiled/internal/codec"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/LittleGreyCells/escheme-compiled/internal/sx"
	"github.com/spf13/cobra"
)

func newAsmCmd(cfg *config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble a symbolic program into a persisted code object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.logger()

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("asm: %w", err)
			}
			defer in.Close()

			tab := symtab.New()
			prog, err := sx.NewReader(in, tab).Read()
			if err != nil {
				return fmt.Errorf("asm: parse: %w", err)
			}

			code, err := asm.Encode(prog)
			if err != nil {
				return fmt.Errorf("asm: encode: %w", err)
			}
			logger.Info("assembled", "file", args[0], "bytes", len(code.Bcodes), "consts", len(code.Sexprs))

			text, err := codec.NewEncoding(code, tab).MarshalText()
			if err != nil {
				return fmt.Errorf("asm: marshal: %w", err)
			}

			if output == "-" || output == "" {
				_, err = cmd.OutOrStdout().Write(text)
				return err
			}
			return os.WriteFile(output, text, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output `file` (- for stdout)")
	return cmd
}
