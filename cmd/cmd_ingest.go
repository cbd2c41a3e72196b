// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/jcodagnone/mapaelectoral/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestOptions struct {
	stations bool
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <archivo>...",
	Short: "Carga archivos de resultados e informa cómo se ubicó cada puesto",
	Long: `Carga cada archivo por separado (cada uno es un conjunto de datos completo)
e imprime el resumen de la carga: puestos con coordenadas exactas, puestos
aproximados por comuna o ciudad, filas descartadas y votos ilegibles.

$ mapa ingest resultados.csv --stations`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		engine, err := newEngine(rootOptions.reference, rootOptions.seed)
		if err != nil {
			return err
		}

		var bar *progressbar.ProgressBar
		if len(args) > 1 && isatty.IsTerminal(os.Stderr.Fd()) {
			bar = progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("Ingesting"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		type loaded struct {
			path string
			ds   *electoral.Dataset
		}

		datasets := make([]loaded, 0, len(args))
		failed := 0

		for _, path := range args {
			ds, err := ingestFile(engine, path)
			if err != nil {
				log.Printf("Ingestion failed - %s", err)
				failed++
			} else {
				datasets = append(datasets, loaded{path: path, ds: ds})
			}

			if bar == nil {
				log.Printf("Ingested %s", path)
			} else if err := bar.Add(1); err != nil {
				log.Printf("updating progress bar for %s: %s", path, err)
			}
		}

		for _, l := range datasets {
			if len(args) > 1 {
				fmt.Printf("\n%s\n", l.path)
			}

			printReport(os.Stdout, l.ds.Report)

			if ingestOptions.stations {
				printStations(os.Stdout, l.ds.Stations)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}

		return nil
	},
}

func printReport(w io.Writer, r electoral.LoadReport) {
	fmt.Fprintf(w, "Puestos:          %s\n", textutils.FormatInt(int64(r.Total)))
	fmt.Fprintf(w, "  exactos:        %s\n", textutils.FormatInt(int64(r.Exact)))
	fmt.Fprintf(w, "  aproximados:    %s\n", textutils.FormatInt(int64(r.Approximate)))
	fmt.Fprintf(w, "Filas:            %s\n", textutils.FormatInt(int64(r.Rows)))
	fmt.Fprintf(w, "  descartadas:    %s\n", textutils.FormatInt(int64(r.SkippedRows)))
	fmt.Fprintf(w, "Votos ilegibles:  %s\n", textutils.FormatInt(int64(r.InvalidVotes)))
}

func printStations(w io.Writer, stations []*electoral.Station) {
	a, b, c, d := strings.Repeat("─", 40), strings.Repeat("─", 12), strings.Repeat("─", 30), strings.Repeat("─", 9)
	fmt.Fprintf(w, "╭─%-40s─┬─%-12s─┬─%-30s─┬─%9s─╮\n", a, b, c, d)
	fmt.Fprintf(w, "│ %-40s │ %-12s │ %-30s │ %9s │\n", "Puesto", "Corporación", "Ganador", "Votos")
	fmt.Fprintf(w, "├─%-40s─┼─%-12s─┼─%-30s─┼─%9s─┤\n", a, b, c, d)

	for _, s := range stations {
		name := s.Name
		if s.IsApproximate {
			name = "~ " + name
		}

		fmt.Fprintf(w, "│ %-40s │ %-12s │ %-30s │ %9s │\n",
			truncate(name, 40), truncate(s.Corporation, 12), truncate(s.WinnerName, 30), textutils.FormatInt(int64(s.TotalVotes)))
	}

	fmt.Fprintf(w, "╰─%-40s─┴─%-12s─┴─%-30s─┴─%9s─╯\n", a, b, c, d)
}

// truncate cuts s to n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestOptions.stations, "stations", false, "imprime cada puesto con su ganador")
	rootCmd.AddCommand(ingestCmd)
}
