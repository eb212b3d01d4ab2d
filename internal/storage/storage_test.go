package storage

import (
	"path/filepath"
	"testing"
)

func openTestADB(t *testing.T) *ADB {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "adb"))
	if err != nil {
		t.Fatalf("open adb: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func openTestEventLog(t *testing.T) *EventLog {
	t.Helper()
	l, err := OpenEventLog(filepath.Join(t.TempDir(), "events"))
	if err != nil {
		t.Fatalf("open eventlog: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestADB_InsertCommitGet(t *testing.T) {
	a := openTestADB(t)
	a.BeginPending()
	a.Insert([]byte("k1"), []byte("v1"))
	a.Insert([]byte("k2"), []byte("v2"))
	if err := a.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	v, ok, err := a.Get([]byte("k1"))
	if err != nil || !ok {
		t.Fatalf("expected k1 present, err=%v ok=%v", err, ok)
	}
	if string(v) != "v1" {
		t.Fatalf("expected v1, got %q", v)
	}
	if a.Height() != 1 {
		t.Fatalf("expected height 1, got %d", a.Height())
	}
	if a.OpCount() != 2 {
		t.Fatalf("expected op_count 2, got %d", a.OpCount())
	}
}

func TestADB_RootChangesWithContent(t *testing.T) {
	a := openTestADB(t)
	r0, err := a.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	a.BeginPending()
	a.Insert([]byte("k"), []byte("v"))
	if err := a.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	r1, err := a.Root()
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	if r0 == r1 {
		t.Fatalf("expected root to change after a commit")
	}
}

func TestADB_DeleteRemovesKey(t *testing.T) {
	a := openTestADB(t)
	a.BeginPending()
	a.Insert([]byte("k"), []byte("v"))
	if err := a.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	a.BeginPending()
	a.Delete([]byte("k"))
	if err := a.Commit(2); err != nil {
		t.Fatalf("commit: %v", err)
	}
	_, ok, err := a.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected k to be gone after delete")
	}
}

func TestADB_DiscardDropsPendingWrites(t *testing.T) {
	a := openTestADB(t)
	a.BeginPending()
	a.Insert([]byte("k"), []byte("v"))
	a.Discard()
	_, ok, err := a.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected discarded insert to never be visible")
	}
	if a.OpCount() != 0 {
		t.Fatalf("expected op_count 0 after discard, got %d", a.OpCount())
	}
}

func TestADB_HeightStartsAtMinusOne(t *testing.T) {
	a := openTestADB(t)
	if a.Height() != -1 {
		t.Fatalf("expected -1 before any commit, got %d", a.Height())
	}
}

func TestEventLog_AppendCommitAssignsSequentialIndices(t *testing.T) {
	l := openTestEventLog(t)
	l.BeginPending()
	l.Append([]byte("ev-a"))
	l.Append([]byte("ev-b"))
	if err := l.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	v0, ok, err := l.Get(0)
	if err != nil || !ok || string(v0) != "ev-a" {
		t.Fatalf("expected ev-a at index 0, got %q ok=%v err=%v", v0, ok, err)
	}
	v1, ok, err := l.Get(1)
	if err != nil || !ok || string(v1) != "ev-b" {
		t.Fatalf("expected ev-b at index 1, got %q ok=%v err=%v", v1, ok, err)
	}
	if l.OpCount() != 2 {
		t.Fatalf("expected op_count 2, got %d", l.OpCount())
	}
}

func TestEventLog_RootIsOrderSensitive(t *testing.T) {
	l1 := openTestEventLog(t)
	l1.BeginPending()
	l1.Append([]byte("a"))
	l1.Append([]byte("b"))
	if err := l1.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	l2 := openTestEventLog(t)
	l2.BeginPending()
	l2.Append([]byte("b"))
	l2.Append([]byte("a"))
	if err := l2.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if l1.Root() == l2.Root() {
		t.Fatalf("expected differently-ordered event sequences to diverge in root")
	}
}

func TestEventLog_RangeReturnsContiguousWindow(t *testing.T) {
	l := openTestEventLog(t)
	l.BeginPending()
	for _, ev := range []string{"a", "b", "c"} {
		l.Append([]byte(ev))
	}
	if err := l.Commit(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := l.Range(1, 3)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || string(got[0]) != "b" || string(got[1]) != "c" {
		t.Fatalf("unexpected range result: %v", got)
	}
}

func TestEventLog_PersistsMetadataAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events")
	l, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.BeginPending()
	l.Append([]byte("x"))
	if err := l.Commit(5); err != nil {
		t.Fatalf("commit: %v", err)
	}
	root := l.Root()
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Height() != 5 {
		t.Fatalf("expected height 5 after reopen, got %d", reopened.Height())
	}
	if reopened.OpCount() != 1 {
		t.Fatalf("expected op_count 1 after reopen, got %d", reopened.OpCount())
	}
	if reopened.Root() != root {
		t.Fatalf("expected root to survive reopen")
	}
}
