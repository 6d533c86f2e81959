package flashwriter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendFileChunksAndDrains(t *testing.T) {
	path := writeFile(t, "fip.bin", 2500)
	w := &recordingWriter{}

	var progress [][2]int64
	tx := NewFileTransmitter(w, 1024, func(sent, total int64) {
		progress = append(progress, [2]int64{sent, total})
	}, nil)

	n, err := tx.SendFile(context.Background(), path)
	require.NoError(t, err)
	assert.EqualValues(t, 2500, n)

	want, _ := os.ReadFile(path)
	assert.Equal(t, want, w.buf.Bytes())
	assert.Equal(t, []int{1024, 1024, 452}, w.writes)
	assert.Equal(t, 3, w.drains)
	assert.Equal(t, [][2]int64{{0, 2500}, {1024, 2500}, {2048, 2500}, {2500, 2500}}, progress)
}

func TestSendFileEmpty(t *testing.T) {
	path := writeFile(t, "empty.bin", 0)
	w := &recordingWriter{}

	n, err := NewFileTransmitter(w, 1024, nil, nil).SendFile(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, w.writes)
}

func TestSendFileMissing(t *testing.T) {
	w := &recordingWriter{}
	path := filepath.Join(t.TempDir(), "missing.bin")

	_, err := NewFileTransmitter(w, 1024, nil, nil).SendFile(context.Background(), path)
	require.ErrorIs(t, err, ErrTransferIO)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var ioErr *TransferIOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, path, ioErr.Path)
	assert.Empty(t, w.writes)
}

func TestSendFileDirectory(t *testing.T) {
	_, err := NewFileTransmitter(&recordingWriter{}, 1024, nil, nil).SendFile(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrTransferIO)
}

func TestSendFileWriteFailure(t *testing.T) {
	path := writeFile(t, "bl2.bin", 100)
	boom := errors.New("device gone")

	_, err := NewFileTransmitter(&recordingWriter{failWrite: boom}, 1024, nil, nil).SendFile(context.Background(), path)
	require.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, boom)
}

func TestSendFileDrainFailure(t *testing.T) {
	path := writeFile(t, "bl2.bin", 100)
	boom := errors.New("tcdrain failed")

	_, err := NewFileTransmitter(&recordingWriter{failDrain: boom}, 1024, nil, nil).SendFile(context.Background(), path)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "drain", transportErr.Op)
}

func TestSendFileCancelled(t *testing.T) {
	path := writeFile(t, "bl2.bin", 100)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &recordingWriter{}
	_, err := NewFileTransmitter(w, 1024, nil, nil).SendFile(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.writes)
}
