// SPDX-License-Identifier: MIT

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation(t *testing.T) {
	ioOperationsTotal.Reset()

	RecordOperation("save_json")
	RecordOperation("save_json")

	got := testutil.ToFloat64(ioOperationsTotal.WithLabelValues("save_json", OutcomeSuccess))
	if got != 2 {
		t.Errorf("expected 2 successful save_json operations, got %f", got)
	}
	totals, err := OperationTotals(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("OperationTotals: %v", err)
	}
	if totals[OpKey{Op: "save_json", Outcome: OutcomeSuccess}] != got {
		t.Errorf("OperationTotals disagrees with collector value")
	}
}

func TestRecordFailure(t *testing.T) {
	ioOperationsTotal.Reset()
	ioErrorsTotal.Reset()

	RecordFailure("load_json", "not_found")

	if got := testutil.ToFloat64(ioOperationsTotal.WithLabelValues("load_json", OutcomeFailure)); got != 1 {
		t.Errorf("expected 1 failed load_json operation, got %f", got)
	}
	if got := testutil.ToFloat64(ioErrorsTotal.WithLabelValues("load_json", "not_found")); got != 1 {
		t.Errorf("expected 1 not_found error, got %f", got)
	}
}

func TestBytesCounters(t *testing.T) {
	ioBytesWrittenTotal.Reset()
	ioBytesReadTotal.Reset()

	AddBytesWritten("save_artifact", 128)
	AddBytesWritten("save_artifact", 0)
	AddBytesRead("load_artifact", 64)
	AddBytesRead("load_artifact", -1)

	if got := testutil.ToFloat64(ioBytesWrittenTotal.WithLabelValues("save_artifact")); got != 128 {
		t.Errorf("expected 128 bytes written, got %f", got)
	}
	if got := testutil.ToFloat64(ioBytesReadTotal.WithLabelValues("load_artifact")); got != 64 {
		t.Errorf("expected 64 bytes read, got %f", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	ioOperationsTotal.Reset()
	RecordOperation("get_size")

	path := filepath.Join(t.TempDir(), "mlkit.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	want := `mlkit_io_operations_total{op="get_size",outcome="success"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("textfile missing %q:\n%s", want, data)
	}
}

func TestWriteTextfile_MissingDir(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "mlkit.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
