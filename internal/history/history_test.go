package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Log {
	t.Helper()
	l, err := Open(context.Background(), filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	l := openTemp(t)

	base := time.UnixMilli(1700000000000)
	entries := []Entry{
		{OperationID: "op-1", Kind: "folder", Action: ActionCreate, Outcome: OutcomeOK, At: base},
		{OperationID: "op-1", Kind: "folder", Action: ActionApply, Basename: "folderDark", Outcome: OutcomeOK, At: base.Add(time.Second)},
		{OperationID: "op-1", Kind: "folder", Action: ActionApply, Basename: "folderLight", Outcome: OutcomeFailed, Stage: "overwrite", Detail: "denied", At: base.Add(2 * time.Second)},
		{OperationID: "op-2", Kind: "dock", Action: ActionRevert, Outcome: OutcomeOK},
	}
	for _, e := range entries {
		if err := l.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	all, err := l.Recent(ctx, "", 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}
	if all[0].Kind != "dock" || all[0].At.IsZero() {
		t.Fatalf("newest entry = %+v", all[0])
	}

	folder, err := l.Recent(ctx, "folder", 2)
	if err != nil {
		t.Fatalf("recent folder: %v", err)
	}
	if len(folder) != 2 {
		t.Fatalf("expected 2 folder entries, got %d", len(folder))
	}
	got := folder[0]
	if got.Basename != "folderLight" || got.Outcome != OutcomeFailed || got.Stage != "overwrite" || got.Detail != "denied" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.At.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("timestamp = %v", got.At)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), FileName)

	l, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Record(ctx, Entry{OperationID: "op", Kind: "switcher", Action: ActionCreate, Outcome: OutcomeOK}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = l.Close()

	l, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	got, err := l.Recent(ctx, "switcher", 10)
	if err != nil || len(got) != 1 {
		t.Fatalf("recent after reopen = %v, %v", got, err)
	}
}
