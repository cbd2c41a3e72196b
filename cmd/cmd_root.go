// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/jcodagnone/mapaelectoral/electoral"
	"github.com/jcodagnone/mapaelectoral/utils/fileutils"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&rootOptions.reference, "reference", "",
		"archivo JSON con colores de partidos y centroides de comunas (por defecto Medellín)")
	rootCmd.PersistentFlags().Uint64Var(&rootOptions.seed, "seed", 0,
		"semilla del desplazamiento de puestos aproximados (0: aleatoria)")
}

var rootCmd = &cobra.Command{
	Use:   "mapa",
	Short: "resultados electorales por puesto de votación",
	Long: `
mapa carga archivos de resultados electorales por puesto de votación (CSV
separado por comas o punto y coma, o XLSX), ubica cada puesto en el mapa
aunque falten coordenadas y consolida votos, ganadores y participación por
comuna y corporación.
`,
	SilenceUsage: true,
}

var rootOptions struct {
	reference string
	seed      uint64
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newRand returns a source seeded with seed, or nil for a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}

	return rand.New(rand.NewPCG(seed, seed))
}

func loadReference(path string) (electoral.Reference, error) {
	if path == "" {
		return electoral.DefaultReference(), nil
	}

	return electoral.LoadReference(path)
}

func newEngine(reference string, seed uint64) (*electoral.Engine, error) {
	ref, err := loadReference(reference)
	if err != nil {
		return nil, err
	}

	return electoral.NewEngine(ref, newRand(seed)), nil
}

// readResults reads a results file, or stdin when path is "-".
func readResults(path string) (string, error) {
	if path != "-" {
		return fileutils.ReadFile(path)
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	text, _, err := fileutils.DecodeText(content)

	return text, err
}

// ingestFile reads and ingests a single results file.
func ingestFile(engine *electoral.Engine, path string) (*electoral.Dataset, error) {
	raw, err := readResults(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ds, err := engine.Ingest(raw)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}

	return ds, nil
}
