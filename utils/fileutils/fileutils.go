// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package fileutils turns results files, whatever their encoding or format,
// into UTF-8 delimited text.
package fileutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// ErrEmptyWorkbook is returned for workbooks without any rows.
var ErrEmptyWorkbook = errors.New("workbook has no rows")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// workbookDelimiter separates the cells of a flattened worksheet.
const workbookDelimiter = ";"

// DecodeText converts content to UTF-8 and returns the name of the encoding
// it was read as. Valid UTF-8 passes through; anything else is sniffed,
// spreadsheet exports usually being windows-1252.
func DecodeText(content []byte) (string, string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	if utf8.Valid(content) {
		return string(content), "utf-8", nil
	}

	enc, name, _ := charset.DetermineEncoding(content, "text/csv")

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return "", name, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}

	return string(bytes.TrimPrefix(decoded, utf8BOM)), name, nil
}

// ReadWorkbook flattens the first worksheet of an xlsx document into
// semicolon separated lines. Delimiters and line breaks inside cells are
// replaced so every row stays on a single line.
func ReadWorkbook(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	cleaner := strings.NewReplacer(workbookDelimiter, ",", "\r\n", " ", "\n", " ", "\r", " ")

	var sb strings.Builder

	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString(workbookDelimiter)
			}

			sb.WriteString(cleaner.Replace(cell))
		}

		sb.WriteByte('\n')
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyWorkbook
	}

	return sb.String(), nil
}

// IsWorkbook reports whether name looks like an xlsx document.
func IsWorkbook(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// Decode returns the text of a results document named name.
func Decode(name string, content []byte) (string, error) {
	if IsWorkbook(name) {
		return ReadWorkbook(bytes.NewReader(content))
	}

	text, _, err := DecodeText(content)

	return text, err
}

// ReadFile reads and decodes a results file.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path) // #nosec G304 - path is provided by the operator
	if err != nil {
		return "", err
	}

	return Decode(path, content)
}
