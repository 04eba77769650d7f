// Package export shapes store snapshots into the wire document consumed by
// the dashboard.
package export

import "github.com/danmuck/telemctl/internal/store"

// SeriesDoc is one exported series: Time and Data are index-aligned and keep
// the arrival order inherited from the store.
type SeriesDoc struct {
	Time []uint32 `json:"Time"`
	Data []any    `json:"Data"`
}

// Document maps display name to its exported series.
type Document map[string]SeriesDoc

// Group binds one display name to the underlying signal names it aggregates.
// The grouping table is external configuration, not logic owned here.
type Group struct {
	Display string
	Signals []string
}

// Export renders a snapshot through the grouping table. Every configured
// display name is present in the output, with empty arrays when no samples
// have arrived; signals absent from the grouping table are not exported.
func Export(snapshot map[string]store.Series, groups []Group) Document {
	doc := make(Document, len(groups))
	for _, g := range groups {
		sd := SeriesDoc{Time: []uint32{}, Data: []any{}}
		for _, name := range g.Signals {
			ser, ok := snapshot[name]
			if !ok {
				continue
			}
			for _, sample := range ser.Samples {
				sd.Time = append(sd.Time, sample.TimestampMS)
				sd.Data = append(sd.Data, sample.Value.Native())
			}
		}
		doc[g.Display] = sd
	}
	return doc
}

// DefaultGroups exposes each signal and derived series under its own name,
// a flat per-signal feed.
func DefaultGroups(names []string) []Group {
	out := make([]Group, 0, len(names))
	for _, name := range names {
		out = append(out, Group{Display: name, Signals: []string{name}})
	}
	return out
}
