package export

import (
	"encoding/json"
	"testing"

	"github.com/danmuck/telemctl/internal/signal"
	"github.com/danmuck/telemctl/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	s.Append("pack_voltage", 0, signal.Double(1))
	s.Append("pack_voltage", 10, signal.Double(2))
	s.Append("pack_voltage", 20, signal.Double(3))
	s.Append("rpm_speed", 5, signal.Int(-16))
	s.Append("is_charging", 7, signal.Bool(true))
	return s
}

func TestExportShapesSeriesDocuments(t *testing.T) {
	groups := []Group{
		{Display: "Voltage", Signals: []string{"pack_voltage"}},
		{Display: "RPM", Signals: []string{"rpm_speed"}},
	}
	doc := Export(seededStore(t).Snapshot(), groups)

	voltage, ok := doc["Voltage"]
	if !ok {
		t.Fatalf("missing Voltage group")
	}
	if len(voltage.Time) != 3 || len(voltage.Data) != 3 {
		t.Fatalf("arrays not index-aligned: %+v", voltage)
	}
	if voltage.Time[0] != 0 || voltage.Time[1] != 10 || voltage.Time[2] != 20 {
		t.Fatalf("unexpected times: %v", voltage.Time)
	}
	if voltage.Data[0] != 1.0 || voltage.Data[1] != 2.0 || voltage.Data[2] != 3.0 {
		t.Fatalf("unexpected data: %v", voltage.Data)
	}
	rpm := doc["RPM"]
	if len(rpm.Time) != 1 || rpm.Data[0] != int64(-16) {
		t.Fatalf("unexpected rpm doc: %+v", rpm)
	}
}

func TestExportGroupsAggregateMultipleSignals(t *testing.T) {
	s := store.New()
	s.Append("low_cell_voltage", 1, signal.Double(3.1))
	s.Append("high_cell_voltage", 2, signal.Double(4.2))

	doc := Export(s.Snapshot(), []Group{
		{Display: "CellVoltage", Signals: []string{"low_cell_voltage", "high_cell_voltage"}},
	})
	cell := doc["CellVoltage"]
	if len(cell.Time) != 2 {
		t.Fatalf("expected merged series of 2, got %+v", cell)
	}
	// Concatenation follows the group's configured signal order.
	if cell.Data[0] != 3.1 || cell.Data[1] != 4.2 {
		t.Fatalf("unexpected merge order: %v", cell.Data)
	}
}

func TestExportEmptyStoreKeepsConfiguredNames(t *testing.T) {
	groups := []Group{
		{Display: "Voltage", Signals: []string{"pack_voltage"}},
		{Display: "SOC", Signals: []string{"pack_SOC"}},
	}
	doc := Export(store.New().Snapshot(), groups)
	if len(doc) != 2 {
		t.Fatalf("expected every configured display name present, got %v", doc)
	}
	for name, sd := range doc {
		if len(sd.Time) != 0 || len(sd.Data) != 0 {
			t.Fatalf("%s: expected empty arrays, got %+v", name, sd)
		}
	}

	// Empty arrays must serialize as [], not null.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(decoded["Voltage"]["Time"]) != "[]" || string(decoded["Voltage"]["Data"]) != "[]" {
		t.Fatalf("expected [] arrays, got %s", raw)
	}
}

func TestExportOmitsUngroupedSignals(t *testing.T) {
	doc := Export(seededStore(t).Snapshot(), []Group{
		{Display: "Voltage", Signals: []string{"pack_voltage"}},
	})
	if len(doc) != 1 {
		t.Fatalf("signals outside the grouping table leaked: %v", doc)
	}
}

func TestExportedJSONFieldNames(t *testing.T) {
	doc := Export(seededStore(t).Snapshot(), []Group{
		{Display: "Charging", Signals: []string{"is_charging"}},
	})
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Charging":{"Time":[7],"Data":[true]}}`
	if string(raw) != want {
		t.Fatalf("wire shape drifted:\n got %s\nwant %s", raw, want)
	}
}

func TestDefaultGroupsAreFlat(t *testing.T) {
	groups := DefaultGroups([]string{"a", "b"})
	if len(groups) != 2 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if groups[0].Display != "a" || len(groups[0].Signals) != 1 || groups[0].Signals[0] != "a" {
		t.Fatalf("unexpected flat group: %+v", groups[0])
	}
}
