package lzc

import (
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledgerwatch/log/v3"
	"github.com/stretchr/testify/require"
)

// loadFixture reads a reference stream captured as hex in testdata.
func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	d, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	raw, err := hex.DecodeString(strings.TrimSpace(string(d)))
	require.NoError(t, err)
	return raw
}

// pack9 builds a stream from a config byte and 9-bit codes, for decoder
// cases no conforming encoder produces.
func pack9(cfg byte, codes ...uint16) []byte {
	var bb bytes.Buffer
	bb.Write([]byte{magic1, magic2, cfg})
	p := bitPacker{out: &bb}
	for _, c := range codes {
		p.writeCode(c, 9)
	}
	p.flush()
	return bb.Bytes()
}

func TestReferenceStreams(t *testing.T) {
	fixtures := []struct {
		name  string
		plain string
	}{
		{"empty.hex", ""},
		{"single_a.hex", "A"},
		{"run_of_a.hex", "AAAAAAAAAA"},
		{"tobeornot.hex", "TOBEORNOTTOBEORTOBEORNOT"},
	}
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			assert := require.New(t)
			ref := loadFixture(t, f.name)

			compressed, err := Compress([]byte(f.plain), DefaultWriterOptions())
			assert.NoError(err)
			assert.Equal(ref, compressed, "encoder output drifted from the reference stream")

			back, err := Decompress(ref, ReaderOptions{})
			assert.NoError(err)
			assert.Equal(f.plain, string(back))
		})
	}
}

func TestNotCompressedInput(t *testing.T) {
	for _, d := range [][]byte{
		nil,
		{0x1f},
		{0x1f, 0x9d},
		[]byte("plain text"),
		{0x1f, 0x8b, 0x08, 0x00}, // gzip
	} {
		_, err := Decompress(d, ReaderOptions{})
		require.ErrorIs(t, err, ErrNotCompressed)
	}
}

func TestHeaderWidthOutOfRangeOnDecode(t *testing.T) {
	_, err := Decompress([]byte{0x1f, 0x9d, 0x88}, ReaderOptions{})
	require.ErrorIs(t, err, ErrCodeWidthRange)
}

func TestCorruptCode(t *testing.T) {
	// 300 has not been assigned when it appears
	stream := pack9(0x90, 'A', 300)
	_, err := Decompress(stream, ReaderOptions{})
	require.ErrorIs(t, err, ErrCorrupt)
	require.ErrorContains(t, err, "300")
	require.ErrorContains(t, err, "at byte")
}

func TestKwKwKNeedsPreviousOutput(t *testing.T) {
	// the next-to-assign code as the very first code has nothing to build on
	stream := pack9(0x90, 257)
	_, err := Decompress(stream, ReaderOptions{})
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestKwKwKDecodes(t *testing.T) {
	// each code names the entry the decoder is in the middle of learning
	stream := pack9(0x90, 'A', 257, 258, 259)
	back, err := Decompress(stream, ReaderOptions{})
	require.NoError(t, err)
	require.Equal(t, "AAAAAAAAAA", string(back))
}

func TestClearResetsDictionary(t *testing.T) {
	// after the reset, 257 must mean the fresh "AA", not the stale "AB"
	stream := pack9(0x90, 'A', 'B', clearCode, 'A', 257)
	back, err := Decompress(stream, ReaderOptions{})
	require.NoError(t, err)
	require.Equal(t, "ABAAA", string(back))
}

func TestStreamPredatingBlockMode(t *testing.T) {
	// block-mode bit clear: entries are assigned from 256 up and there is
	// no CLEAR code
	stream := pack9(0x10, 'A', 'B', 256)
	back, err := Decompress(stream, ReaderOptions{})
	require.NoError(t, err)
	require.Equal(t, "ABAB", string(back))
}

func TestTruncatedBodyEndsQuietly(t *testing.T) {
	plain := []byte("TOBEORNOTTOBEORTOBEORNOT")
	full, err := Compress(plain, DefaultWriterOptions())
	require.NoError(t, err)

	// the cut strands partial bits, which are dropped like flush padding
	for cut := len(full) - 1; cut >= HeaderSize; cut-- {
		back, err := Decompress(full[:cut], ReaderOptions{})
		require.NoError(t, err, "cut at %d", cut)
		require.True(t, bytes.HasPrefix(plain, back), "cut at %d", cut)
	}
}

func TestReaderDeliversAcrossSmallBuffers(t *testing.T) {
	plain := testInput(4096)
	compressed, err := Compress(plain, DefaultWriterOptions())
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(compressed), ReaderOptions{})
	require.NoError(t, err)

	var out bytes.Buffer
	buf := make([]byte, 7)
	for {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	require.True(t, bytes.Equal(plain, out.Bytes()))
}

func TestReaderHeader(t *testing.T) {
	compressed, err := Compress([]byte("x"), WriterOptions{MaxCodeWidth: 12})
	require.NoError(t, err)

	r, err := NewReader(bytes.NewReader(compressed), ReaderOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 12, r.Header().MaxCodeWidth)
	require.True(t, r.Header().BlockMode)
}

func TestReaderPlainSource(t *testing.T) {
	// a source without ReadByte goes through the buffered path
	plain := testInput(2048)
	compressed, err := Compress(plain, DefaultWriterOptions())
	require.NoError(t, err)

	r, err := NewReader(onlyReader{bytes.NewReader(compressed)}, ReaderOptions{})
	require.NoError(t, err)
	back, err := io.ReadAll(r)
	require.NoError(t, err)
	require.True(t, bytes.Equal(plain, back))
}

// onlyReader hides every method of the wrapped reader except Read.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func TestReservedFlagBitsWarnAndProceed(t *testing.T) {
	assert := require.New(t)
	var warned bool
	logger := log.New()
	logger.SetHandler(log.FuncHandler(func(r *log.Record) error {
		if r.Lvl == log.LvlWarn {
			warned = true
		}
		return nil
	}))

	// reserved bit 6 set alongside block mode
	stream := pack9(0xd0, 'h', 'i')
	back, err := Decompress(stream, ReaderOptions{Logger: logger})
	assert.NoError(err)
	assert.Equal("hi", string(back))
	assert.True(warned, "reserved flag bits go unreported")
}
