package pqfile

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/hexbee-net/parquet4go/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.parquet")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestOpenTooSmallIsCorrupted(t *testing.T) {
	path := writeTempFile(t, []byte("short"))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errs.IsCorrupted(err))
	assert.Contains(t, err.Error(), "File too small")
}

func TestOpenBadMagicIsCorrupted(t *testing.T) {
	footer := make([]byte, footerTail)
	binary.LittleEndian.PutUint32(footer[0:4], 0)
	copy(footer[4:8], "JUNK")
	path := writeTempFile(t, footer)

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errs.IsCorrupted(err))
	assert.Contains(t, err.Error(), "Magic bytes not found in footer")
}

// TestOpenEncryptedFooterIsUnsupported guards against errs.CorruptedWrap's
// kind-collapsing behavior at Open's readFileMetadata call site: the
// PARE-encryption marker must surface as Unsupported all the way out of
// Open, not get downgraded to CorruptedFile by the wrapping step.
func TestOpenEncryptedFooterIsUnsupported(t *testing.T) {
	footer := make([]byte, footerTail)
	binary.LittleEndian.PutUint32(footer[0:4], 0)
	copy(footer[4:8], magicEnc)
	path := writeTempFile(t, footer)

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, errs.IsUnsupported(err))
	assert.False(t, errs.IsCorrupted(err))
	assert.Contains(t, err.Error(), "Parquet encryption is currently unsupported")
}

func TestOpenMissingFileIsCorrupted(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.parquet"))
	require.Error(t, err)
	assert.True(t, errs.IsCorrupted(err))
}
