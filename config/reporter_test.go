package config

import (
	"archive/zip"
	"os"
	"testing"
)

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReport_StoreDataAndFinalize(t *testing.T) {
	reportFile, err := os.CreateTemp(t.TempDir(), "test-report-*.zip")
	if err != nil {
		t.Fatalf("failed to create temp report file: %v", err)
	}

	r := &Report{
		entries: make(map[string]entry),
		file:    reportFile,
	}

	r.StoreData("ai/response.txt", []byte("raw model output"))
	r.StoreData("schema/styles.yaml", []byte("layouts: []"))
	// storing the same name twice must not panic, it gets versioned
	r.StoreData("ai/response.txt", []byte("second attempt"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	zr, err := zip.OpenReader(reportFile.Name())
	if err != nil {
		t.Fatalf("report is not a readable zip: %v", err)
	}
	defer zr.Close()

	found := map[string]bool{}
	for _, f := range zr.File {
		found[f.Name] = true
	}
	if !found["MANIFEST"] {
		t.Error("report archive has no MANIFEST")
	}
	if !found["ai/response.txt"] {
		t.Error("report archive is missing stored data entry")
	}
	if len(zr.File) != 4 {
		t.Errorf("report archive has %d entries, want 4 (manifest + 3 stored)", len(zr.File))
	}
}

func TestReport_StoreData_NilReceiver(t *testing.T) {
	var r *Report
	// must be a no-op, not a panic
	r.StoreData("anything", []byte("data"))
	r.Store("anything", "/tmp/anything")
}
