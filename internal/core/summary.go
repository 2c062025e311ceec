package core

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Statuses the overview singles out.
const (
	StatusPendente  = "Pendente"
	StatusResolvido = "Resolvido"
)

// Filter narrows a table for the dashboard and the editor grid. Zero values
// mean "no constraint".
type Filter struct {
	From, To        time.Time
	Responsavel     []string
	Status          []string
	Inconsistencias []string
	// Search matches case-insensitively against every cell of a row.
	Search string
}

// Apply returns a filtered copy of t. Row IDs are preserved, so the result
// is a view whose rows still identify rows of the source table.
func (f Filter) Apply(t *Table) *Table {
	out := &Table{Path: t.Path, Columns: append([]string(nil), t.Columns...)}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for i := range t.Rows {
		r := t.Rows[i]
		if !f.matchDate(r.Fields[ColDia]) {
			continue
		}
		if !matchAny(f.Responsavel, r.Fields[ColResponsavel]) {
			continue
		}
		if !matchAny(f.Status, r.Fields[ColStatus]) {
			continue
		}
		if !matchAny(f.Inconsistencias, r.Fields[ColInconsistencias]) {
			continue
		}
		if search != "" && !rowContains(r, search) {
			continue
		}
		out.Rows = append(out.Rows, Row{ID: r.ID, Fields: copyFields(r.Fields)})
	}
	return out
}

func (f Filter) matchDate(cell string) bool {
	if f.From.IsZero() && f.To.IsZero() {
		return true
	}
	d, err := time.Parse(DateLayout, cell)
	if err != nil {
		// Rows with an unparseable or empty date drop out of date-bounded views.
		return false
	}
	if !f.From.IsZero() && d.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && d.After(f.To) {
		return false
	}
	return true
}

func matchAny(wanted []string, v string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if v == w {
			return true
		}
	}
	return false
}

func rowContains(r Row, loweredNeedle string) bool {
	for _, v := range r.Fields {
		if strings.Contains(strings.ToLower(v), loweredNeedle) {
			return true
		}
	}
	return false
}

// VolumeByKey is a volume total aggregated under one key (a day, a status,
// an inconsistency type).
type VolumeByKey struct {
	Key    string
	Volume int64
}

// ResponsavelStatusVolume is the per-responsible, per-status breakdown used
// by the productivity chart.
type ResponsavelStatusVolume struct {
	Responsavel string
	Status      string
	Volume      int64
}

// Summary holds the dashboard aggregates for one (possibly filtered) table.
type Summary struct {
	TotalRecords   int
	TotalVolume    int64
	PendingCount   int
	ResolutionRate float64 // percentage of records with status Resolvido

	ByDay              []VolumeByKey
	ByStatus           []VolumeByKey
	TopInconsistencias []VolumeByKey // at most 5, ascending by volume
	ByResponsavel      []ResponsavelStatusVolume
}

// Summarize computes the dashboard aggregates. Quantidade cells that do not
// parse as integers count as zero volume, matching the forgiving dashboard
// semantics; the record itself still counts.
func Summarize(t *Table) Summary {
	s := Summary{TotalRecords: len(t.Rows)}
	byDay := map[string]int64{}
	byStatus := map[string]int64{}
	byInc := map[string]int64{}
	byResp := map[[2]string]int64{}
	resolved := 0

	for i := range t.Rows {
		r := t.Rows[i]
		qty := parseVolume(r.Fields[ColQuantidade])
		s.TotalVolume += qty

		switch r.Fields[ColStatus] {
		case StatusPendente:
			s.PendingCount++
		case StatusResolvido:
			resolved++
		}

		if d := r.Fields[ColDia]; d != "" {
			byDay[d] += qty
		}
		if st := r.Fields[ColStatus]; st != "" {
			byStatus[st] += qty
		}
		if inc := r.Fields[ColInconsistencias]; inc != "" {
			byInc[inc] += qty
		}
		resp := r.Fields[ColResponsavel]
		st := r.Fields[ColStatus]
		if resp != "" {
			byResp[[2]string{resp, st}] += qty
		}
	}

	if s.TotalRecords > 0 {
		s.ResolutionRate = float64(resolved) / float64(s.TotalRecords) * 100
	}

	s.ByDay = sortedByKey(byDay)
	s.ByStatus = sortedByKey(byStatus)
	s.TopInconsistencias = topByVolume(byInc, 5)
	for k, v := range byResp {
		s.ByResponsavel = append(s.ByResponsavel, ResponsavelStatusVolume{Responsavel: k[0], Status: k[1], Volume: v})
	}
	sort.Slice(s.ByResponsavel, func(i, j int) bool {
		if s.ByResponsavel[i].Responsavel != s.ByResponsavel[j].Responsavel {
			return s.ByResponsavel[i].Responsavel < s.ByResponsavel[j].Responsavel
		}
		return s.ByResponsavel[i].Status < s.ByResponsavel[j].Status
	})
	return s
}

func parseVolume(cell string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func sortedByKey(m map[string]int64) []VolumeByKey {
	out := make([]VolumeByKey, 0, len(m))
	for k, v := range m {
		out = append(out, VolumeByKey{Key: k, Volume: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func topByVolume(m map[string]int64, n int) []VolumeByKey {
	all := make([]VolumeByKey, 0, len(m))
	for k, v := range m {
		all = append(all, VolumeByKey{Key: k, Volume: v})
	}
	// Descending by volume, then trim and flip to ascending for the chart.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Volume != all[j].Volume {
			return all[i].Volume > all[j].Volume
		}
		return all[i].Key < all[j].Key
	})
	if len(all) > n {
		all = all[:n]
	}
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all
}
