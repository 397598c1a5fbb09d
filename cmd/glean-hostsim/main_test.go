package main

import (
	"os"
	"testing"
)

func TestRunRecordBooleanAndSendPing(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("GLEAN_DATA_PATH", dir)
	defer os.Unsetenv("GLEAN_DATA_PATH")

	if code := run([]string{"record-boolean", "ui.enabled", "true"}); code != 0 {
		t.Fatalf("run(record-boolean) = %d, want 0", code)
	}
	if code := run([]string{"send-ping", "metrics"}); code != 0 {
		t.Fatalf("run(send-ping) = %d, want 0", code)
	}

	pendingDir := dir + "/pending_pings"
	entries, err := os.ReadDir(pendingDir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", pendingDir, err)
	}
	if len(entries) == 0 {
		t.Error("expected at least one pending ping file")
	}
}
