package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordFrameDecoded()
	RecordResyncs(2)
	RecordUnknownSignal(0xEE, 0x03)
	RecordSampleAppended("pack_voltage")
	RecordTransportReconnect()
	RecordPublishFailure()
	RecordHTTPRequest("GET", "/data/receive", 200, 12*time.Millisecond)
}
