package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danmuck/telemctl/internal/export"
	"github.com/danmuck/telemctl/internal/signal"
	"github.com/danmuck/telemctl/internal/store"
)

func testRouter(t *testing.T, st *store.Store, groups []export.Group) http.Handler {
	t.Helper()
	return NewServer("telemctl-test", st, groups).Router(zerolog.Nop(), nil)
}

func TestDataReceiveServesExportDocument(t *testing.T) {
	st := store.New()
	st.Append("pack_voltage", 0, signal.Double(1))
	st.Append("pack_voltage", 10, signal.Double(2))
	st.Append("pack_voltage", 20, signal.Double(3))

	groups := []export.Group{{Display: "Voltage", Signals: []string{"pack_voltage"}}}
	router := testRouter(t, st, groups)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/receive", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var doc map[string]struct {
		Time []uint32  `json:"Time"`
		Data []float64 `json:"Data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	voltage, ok := doc["Voltage"]
	if !ok {
		t.Fatalf("missing Voltage: %s", rec.Body.String())
	}
	if len(voltage.Time) != 3 || len(voltage.Data) != 3 {
		t.Fatalf("arrays not aligned: %+v", voltage)
	}
	if voltage.Time[2] != 20 || voltage.Data[2] != 3 {
		t.Fatalf("unexpected tail sample: %+v", voltage)
	}
}

func TestDataReceiveEmptyStoreListsConfiguredGroups(t *testing.T) {
	groups := []export.Group{
		{Display: "RPM", Signals: []string{"rpm_speed"}},
		{Display: "Voltage", Signals: []string{"pack_voltage"}},
	}
	router := testRouter(t, store.New(), groups)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/receive", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("expected both configured groups, got %s", rec.Body.String())
	}
}

func TestHealthAndReady(t *testing.T) {
	router := testRouter(t, store.New(), nil)
	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := testRouter(t, store.New(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
}
