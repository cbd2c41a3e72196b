// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/jcodagnone/mapaelectoral/dashboard"
	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/spf13/cobra"
)

var serveOptions struct {
	addr     string
	sample   bool
	snapshot string
}

var serveCmd = &cobra.Command{
	Use:   "serve [archivo]",
	Short: "Sirve el tablero de resultados como API JSON",
	Long: `Levanta la API del tablero. El conjunto de datos inicial puede venir de un
archivo de resultados, de una exportación JSON (--snapshot) o del ejemplo
incorporado (--sample); luego se reemplaza con POST /api/dataset.

La configuración se lee de las variables MAPA_ADDR, MAPA_REFERENCE, MAPA_SEED
y MAPA_MAX_UPLOAD_BYTES; los flags tienen prioridad.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := dashboard.LoadConfig()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveOptions.addr
		}

		if cmd.Flags().Changed("reference") {
			cfg.Reference = rootOptions.reference
		}

		if cmd.Flags().Changed("seed") {
			cfg.Seed = rootOptions.seed
		}

		sources := 0
		for _, set := range []bool{len(args) > 0, serveOptions.sample, serveOptions.snapshot != ""} {
			if set {
				sources++
			}
		}

		if sources > 1 {
			return errors.New("use only one of a results file, --sample or --snapshot")
		}

		engine, err := newEngine(cfg.Reference, cfg.Seed)
		if err != nil {
			return err
		}

		server := dashboard.NewServer(engine, cfg)

		switch {
		case len(args) > 0:
			raw, err := readResults(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			if _, err := server.Load(raw); err != nil {
				return fmt.Errorf("ingesting %s: %w", args[0], err)
			}
		case serveOptions.sample:
			if _, err := server.Load(electoral.SampleCSV); err != nil {
				return fmt.Errorf("ingesting sample: %w", err)
			}
		case serveOptions.snapshot != "":
			snapshot, err := electoral.ImportFromJSON(serveOptions.snapshot)
			if err != nil {
				return err
			}

			log.Printf("Loaded snapshot generated %s with %s reference", snapshot.GeneratedAt.Format("2006-01-02 15:04"), snapshot.Reference)
			server.SetDataset(snapshot.Dataset)
		default:
			log.Print("No dataset loaded, waiting for POST /api/dataset")
		}

		return server.Run(cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOptions.addr, "addr", "localhost:8080", "dirección donde escuchar")
	serveCmd.Flags().BoolVar(&serveOptions.sample, "sample", false, "carga el conjunto de datos de ejemplo")
	serveCmd.Flags().StringVar(&serveOptions.snapshot, "snapshot", "", "carga una exportación JSON de mapa export")
	rootCmd.AddCommand(serveCmd)
}
