package importstate

import "testing"

func TestStartImportBlocksConcurrentRuns(t *testing.T) {
	c := New()
	if err := c.StartImport("src1"); err != nil {
		t.Fatalf("unexpected error on first start: %v", err)
	}
	if err := c.StartImport("src1"); err != ErrBusy {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := c.StartImport("src2"); err != nil {
		t.Fatalf("expected a different source to start freely, got %v", err)
	}
	c.CompleteImport("src1", 10)
	if err := c.StartImport("src1"); err != nil {
		t.Fatalf("expected restart after completion, got %v", err)
	}
}
