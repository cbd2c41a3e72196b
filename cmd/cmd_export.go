// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/spf13/cobra"
)

var exportOptions struct {
	format string
	out    string
}

var exportCmd = &cobra.Command{
	Use:   "export <archivo>",
	Short: "Exporta un conjunto de datos a JSON o DuckDB",
	Long: `Carga un archivo de resultados y guarda el conjunto de datos resultante.

json    un documento versionado que mapa serve --snapshot puede volver a cargar
duckdb  las tablas stations, candidates y station_votes, para análisis con SQL

$ mapa export resultados.csv --format duckdb --out resultados.duckdb`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if exportOptions.out == "" {
			return fmt.Errorf("--out is required")
		}

		engine, err := newEngine(rootOptions.reference, rootOptions.seed)
		if err != nil {
			return err
		}

		ds, err := ingestFile(engine, args[0])
		if err != nil {
			return err
		}

		switch exportOptions.format {
		case "json":
			if err := electoral.ExportToJSON(ds, engine.Reference().Name, exportOptions.out); err != nil {
				return fmt.Errorf("exporting to JSON: %w", err)
			}
		case "duckdb":
			if err := exportDuckDB(ds, exportOptions.out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %q, use json or duckdb", exportOptions.format)
		}

		log.Printf("✅ Exported %d stations to %s", len(ds.Stations), exportOptions.out)

		return nil
	},
}

func exportDuckDB(ds *electoral.Dataset, path string) error {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := electoral.NewDatasetRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := repo.SaveDataset(ds); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	count, err := repo.CountStations()
	if err != nil {
		return fmt.Errorf("counting stations: %w", err)
	}

	if count != len(ds.Stations) {
		return fmt.Errorf("stored %d stations, expected %d", count, len(ds.Stations))
	}

	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportOptions.format, "format", "json", "json o duckdb")
	exportCmd.Flags().StringVarP(&exportOptions.out, "out", "o", "", "archivo de salida")
	rootCmd.AddCommand(exportCmd)
}
