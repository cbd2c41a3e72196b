// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package fileutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		want     string
		encoding string
	}{
		{
			name:     "utf-8",
			content:  []byte("puesto,votos\nBelén,3"),
			want:     "puesto,votos\nBelén,3",
			encoding: "utf-8",
		},
		{
			name:     "utf-8 with bom",
			content:  append([]byte{0xEF, 0xBB, 0xBF}, "puesto,votos"...),
			want:     "puesto,votos",
			encoding: "utf-8",
		},
		{
			name:     "latin-1",
			content:  []byte("Elecci\xf3n;Votos\nBel\xe9n;3"),
			want:     "Elección;Votos\nBelén;3",
			encoding: "windows-1252",
		},
		{
			name:     "utf-16le with bom",
			content:  []byte{0xFF, 0xFE, 'a', 0, ';', 0, 0xE9, 0},
			want:     "a;é",
			encoding: "utf-16le",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, encoding, err := DecodeText(tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.encoding, encoding)
		})
	}
}

func newWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestReadWorkbook(t *testing.T) {
	data := newWorkbook(t, [][]any{
		{"Puesto", "Comuna", "Votos"},
		{"Colegio; sede 2", "Robledo", 120},
		{"Escuela\nBelén", "Belén", 7},
	})

	got, err := ReadWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Puesto;Comuna;Votos\nColegio, sede 2;Robledo;120\nEscuela Belén;Belén;7\n", got)
}

func TestReadWorkbookErrors(t *testing.T) {
	_, err := ReadWorkbook(bytes.NewReader([]byte("not a zip")))
	assert.Error(t, err)

	_, err = ReadWorkbook(bytes.NewReader(newWorkbook(t, nil)))
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("resultados.xlsx"))
	assert.True(t, IsWorkbook("RESULTADOS.XLSX"))
	assert.False(t, IsWorkbook("resultados.csv"))
	assert.False(t, IsWorkbook("xlsx"))
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "mesa.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Lugar;Votos\nBel\xe9n;3\n"), 0o600))

	got, err := ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Lugar;Votos\nBelén;3\n", got)

	xlsxPath := filepath.Join(dir, "mesa.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, newWorkbook(t, [][]any{{"Lugar", "Votos"}, {"Belén", 3}}), 0o600))

	got, err = ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, "Lugar;Votos\nBelén;3\n", got)

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
