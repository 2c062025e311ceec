package core

import (
	"errors"
	"strings"
	"time"
)

// Canonical column names of the discrepancy schema. Extra columns are
// tolerated and passed through unvalidated.
const (
	ColDia             = "Dia"
	ColQuantidade      = "Quantidade"
	ColInconsistencias = "Inconsistencias"
	ColStatus          = "Status"
	ColResponsavel     = "Responsavel"
)

// DateLayout is the canonical cell format for the Dia column.
const DateLayout = "2006-01-02"

// RequiredColumns lists the canonical schema in display order.
var RequiredColumns = []string{ColDia, ColQuantidade, ColInconsistencias, ColStatus, ColResponsavel}

var (
	ErrEmptyDia             = errors.New("empty date")
	ErrInvalidQuantidade    = errors.New("quantity must be a number of at most 5 digits")
	ErrEmptyInconsistencia  = errors.New("empty inconsistency type")
	ErrEmptyStatus          = errors.New("empty status")
	ErrEmptyResponsavel     = errors.New("empty responsible party")
)

// MissingColumns reports which canonical columns the table lacks, in schema
// order. An empty result means the table satisfies the schema contract.
func MissingColumns(t *Table) []string {
	var missing []string
	for _, c := range RequiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// ValidQuantidade reports whether v is a non-negative integer of at most
// five digits, the only accepted manual-entry form.
func ValidQuantidade(v string) bool {
	if len(v) < 1 || len(v) > 5 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Entry is a manually keyed record queued before being appended to a table.
type Entry struct {
	Dia             time.Time
	Quantidade      string
	Inconsistencias string
	Status          string
	Responsavel     string
}

func (e Entry) Validate() error {
	if e.Dia.IsZero() {
		return ErrEmptyDia
	}
	if !ValidQuantidade(strings.TrimSpace(e.Quantidade)) {
		return ErrInvalidQuantidade
	}
	if strings.TrimSpace(e.Responsavel) == "" {
		return ErrEmptyResponsavel
	}
	if strings.TrimSpace(e.Inconsistencias) == "" {
		return ErrEmptyInconsistencia
	}
	if strings.TrimSpace(e.Status) == "" {
		return ErrEmptyStatus
	}
	return nil
}

// Fields converts the entry to table cells using canonical formats.
func (e Entry) Fields() map[string]string {
	return map[string]string{
		ColDia:             e.Dia.Format(DateLayout),
		ColQuantidade:      strings.TrimSpace(e.Quantidade),
		ColInconsistencias: e.Inconsistencias,
		ColStatus:          e.Status,
		ColResponsavel:     e.Responsavel,
	}
}
