// Package tabular loads and writes the discrepancy spreadsheets. Files are
// dispatched by extension: ".csv" means comma-separated text, anything else
// is treated as an Excel workbook. Loading canonicalizes headers and the Dia
// column; writing preserves column order and adds no index column.
package tabular

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contabil/internal/core"
)

// Load reads the spreadsheet at path into a Table, assigning row IDs in
// file order.
func Load(path string) (*core.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	t, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	t.Path = path
	return t, nil
}

// Parse builds a Table from raw spreadsheet bytes. The name's extension
// selects the format.
func Parse(name string, data []byte) (*core.Table, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		rows, err = readCSV(data)
	} else {
		rows, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(rows) == 0 {
		return core.NewTable(nil), nil
	}

	t := core.NewTable(normalizeHeaders(rows[0]))
	for _, rec := range rows[1:] {
		fields := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(rec) {
				fields[col] = strings.TrimSpace(rec[j])
			}
		}
		t.Append(fields)
	}
	coerceDia(t)
	return t, nil
}

// Write persists the table to path, choosing the format by extension.
func Write(t *core.Table, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		var buf bytes.Buffer
		if err := writeCSV(&buf, t); err != nil {
			return fmt.Errorf("render %s: %w", filepath.Base(path), err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	return writeXLSX(path, t)
}

// TemplateCSV returns the downloadable one-row example spreadsheet.
func TemplateCSV() []byte {
	return []byte("Dia,Quantidade,Inconsistencias,Status,Responsavel\n" +
		"2023-10-01,10,Exemplo de Erro,Pendente,Nome\n")
}
