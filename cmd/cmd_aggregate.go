// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/jcodagnone/mapaelectoral/utils/textutils"
	"github.com/spf13/cobra"
)

var aggregateOptions struct {
	filter   electoral.Filter
	byComuna bool
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <archivo>",
	Short: "Consolida votos, participación y ranking de candidatos",
	Long: `Carga un archivo de resultados y suma los puestos que cumplen el filtro.
Sin filtros consolida todo el archivo.

$ mapa aggregate resultados.csv --corporation Senado --comuna Laureles`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		engine, err := newEngine(rootOptions.reference, rootOptions.seed)
		if err != nil {
			return err
		}

		ds, err := ingestFile(engine, args[0])
		if err != nil {
			return err
		}

		res := electoral.Aggregate(ds, aggregateOptions.filter)
		printAggregate(os.Stdout, res)

		if aggregateOptions.byComuna {
			printComunas(os.Stdout, electoral.ComunaBreakdown(ds, aggregateOptions.filter.Corporation))
		}

		return nil
	},
}

func printAggregate(w io.Writer, res *electoral.AggregateResult) {
	fmt.Fprintf(w, "Puestos:        %s\n", textutils.FormatInt(int64(res.Stations)))
	fmt.Fprintf(w, "Votos:          %s\n", textutils.FormatInt(int64(res.TotalVotes)))
	fmt.Fprintf(w, "Potencial:      %s\n", textutils.FormatInt(int64(res.PotentialVoters)))
	fmt.Fprintf(w, "Participación:  %.2f%%\n", res.ParticipationRate)
	fmt.Fprintf(w, "Lidera:         %s\n", res.LeadingCandidate)

	ranking := res.Ranking()
	if len(ranking) == 0 {
		return
	}

	a, b, c := strings.Repeat("─", 40), strings.Repeat("─", 11), strings.Repeat("─", 7)
	fmt.Fprintf(w, "╭─%-40s─┬─%11s─┬─%7s─╮\n", a, b, c)
	fmt.Fprintf(w, "│ %-40s │ %11s │ %7s │\n", "Candidato", "Votos", "%")
	fmt.Fprintf(w, "├─%-40s─┼─%11s─┼─%7s─┤\n", a, b, c)

	for _, e := range ranking {
		fmt.Fprintf(w, "│ %-40s │ %11s │ %6.2f%% │\n", truncate(e.Name, 40), textutils.FormatInt(int64(e.Votes)), e.Share)
	}

	fmt.Fprintf(w, "╰─%-40s─┴─%11s─┴─%7s─╯\n", a, b, c)
}

func printComunas(w io.Writer, breakdown []electoral.ComunaVotes) {
	for _, cv := range breakdown {
		fmt.Fprintf(w, "%-30s %4d puestos %11s votos\n", cv.Comuna, cv.Stations, textutils.FormatInt(int64(cv.TotalVotes)))
	}
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateOptions.filter.Comuna, "comuna", "", "solo puestos de esta comuna")
	aggregateCmd.Flags().StringVar(&aggregateOptions.filter.Corporation, "corporation", "", "solo puestos de esta corporación")
	aggregateCmd.Flags().BoolVar(&aggregateOptions.byComuna, "by-comuna", false, "imprime los votos de cada comuna")
	rootCmd.AddCommand(aggregateCmd)
}
