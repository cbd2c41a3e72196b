// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/spf13/cobra"
)

// isTerminal reports whether f is a character device. Files that can't be
// stat'ed are not terminals.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugColumnsCmd = &cobra.Command{
	Use:   "columns [archivo]",
	Short: "Muestra qué columna del encabezado se usa para cada campo",
	Long: `Lee la primera línea de un archivo de resultados (o de stdin) e imprime el
separador detectado y la columna elegida para cada campo.

$ echo 'Lugar;Zona;Votos' | mapa debug columns
delimiter	";"
station		0	lugar
comuna		1	zona
votes		2	votos
…`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		} else if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Ingrese el encabezado a analizar y presione Ctrl+D…")
		}

		raw, err := readResults(path)
		if err != nil {
			return err
		}

		header, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")

		cols, err := electoral.ResolveColumns(header)

		fmt.Printf("delimiter\t%q\n", cols.Delimiter)

		for _, f := range electoral.Fields() {
			if i := cols.Index(f); i != electoral.Absent {
				fmt.Printf("%-15s\t%d\t%s\n", f, i, cols.Headers[i])
			} else {
				fmt.Printf("%-15s\t-\n", f)
			}
		}

		return err
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugColumnsCmd)
}
