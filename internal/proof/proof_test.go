package proof

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"casinochain/internal/storage"
)

func openTestBuilder(t *testing.T) (*Builder, *storage.ADB, *storage.EventLog) {
	t.Helper()
	adb, err := storage.Open(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	t.Cleanup(func() { adb.Close() })
	evl, err := storage.OpenEventLog(filepath.Join(t.TempDir(), "events"))
	require.NoError(t, err)
	t.Cleanup(func() { evl.Close() })
	b, err := NewBuilder(adb, evl, 8)
	require.NoError(t, err)
	return b, adb, evl
}

func TestStateProof_RoundTrips(t *testing.T) {
	b, adb, _ := openTestBuilder(t)
	adb.BeginPending()
	adb.Insert([]byte("acct/1"), []byte("v1"))
	adb.Insert([]byte("acct/2"), []byte("v2"))
	adb.Insert([]byte("other/1"), []byte("v3"))
	require.NoError(t, adb.Commit(1))

	p, err := b.BuildStateProof([]byte("acct/"))
	require.NoError(t, err)
	require.Len(t, p.Entries, 2)
	require.NoError(t, VerifyStateProof(p, p.Root))
}

func TestStateProof_RejectsTamperedRoot(t *testing.T) {
	b, adb, _ := openTestBuilder(t)
	adb.BeginPending()
	adb.Insert([]byte("k"), []byte("v"))
	require.NoError(t, adb.Commit(1))

	p, err := b.BuildStateProof([]byte("k"))
	require.NoError(t, err)
	var wrongRoot [32]byte
	wrongRoot[0] = 0xff
	require.Error(t, VerifyStateProof(p, wrongRoot))
}

func TestEventProof_RoundTrips(t *testing.T) {
	b, _, evl := openTestBuilder(t)
	evl.BeginPending()
	evl.Append([]byte("event-a"))
	evl.Append([]byte("event-b"))
	require.NoError(t, evl.Commit(1))

	p, err := b.BuildEventProof(0, 2)
	require.NoError(t, err)
	require.Equal(t, evl.Root(), p.EndChain)
	require.NoError(t, VerifyEventProof(p, evl.Root()))
}

func TestBuildEventProof_RejectsRangeBeyondMaxProofOps(t *testing.T) {
	b, _, _ := openTestBuilder(t)
	_, err := b.BuildEventProof(0, MaxProofOps+1)
	require.Error(t, err)
}
