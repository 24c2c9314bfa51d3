package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, FlagLZ4, 1234))
	assert.Len(t, buf.Bytes(), 12) // magic, version, flags, reserved, length

	header, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, FlagLZ4, header.Flags)
	assert.Equal(t, uint32(1234), header.Length)
}

func TestFileHeader_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		header FileHeader
		errMsg string
	}{
		{"magic", FileHeader{Magic: [4]byte{'G', 'O', 'D', 'B'}, Version: FormatVersion}, "invalid file format"},
		{"version", FileHeader{Magic: [4]byte{'G', 'C', 'A', 'T'}, Version: 99}, "unsupported file version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, binary.Write(&buf, binary.LittleEndian, tt.header))

			_, err := ReadHeader(&buf)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	_, err := ReadHeader(bytes.NewReader([]byte("GC")))
	assert.ErrorContains(t, err, "failed to read header")
}

func sampleSnapshot(books int) *Snapshot {
	scifi := make([]domain.Document, books)
	for i := range scifi {
		scifi[i] = domain.Document{
			"title":      fmt.Sprintf("Book %d", i),
			"author":     "Frank Herbert",
			"page_count": float64(100 + i),
		}
	}
	return &Snapshot{
		OwnerID:   "doc-1",
		OwnerName: "Alice",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Genres: map[string][]domain.Document{
			"scifi": scifi,
			"drama": {},
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		books int
	}{
		{"many books", 200},
		{"no books", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := sampleSnapshot(tt.books)
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, snap))

			decoded, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, snap.OwnerName, decoded.OwnerName)
			assert.True(t, snap.CreatedAt.Equal(decoded.CreatedAt))
			assert.Equal(t, []string{"drama", "scifi"}, decoded.GenreNames())
			assert.Equal(t, tt.books, decoded.BookCount())
			if tt.books > 0 {
				assert.Equal(t, "Book 0", decoded.Genres["scifi"][0]["title"])
			}
		})
	}
}

func TestEncode_CompressesRepetitivePayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSnapshot(200)))

	header, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, FlagLZ4, header.Flags&FlagLZ4)
	assert.Less(t, buf.Len(), int(header.Length))
}

func TestDecode_RawPayload(t *testing.T) {
	payload, err := msgpack.Marshal(sampleSnapshot(2))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 0, uint32(len(payload))))
	buf.Write(payload)

	snap, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.BookCount())
}

func TestDecode_Corrupt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleSnapshot(200)))
	data := buf.Bytes()

	_, err := Decode(bytes.NewReader(data[:len(data)/2]))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("not a snapshot at all"))
	assert.ErrorContains(t, err, "invalid file header")
}

func TestDecode_RejectsOversizedHeaderLength(t *testing.T) {
	for _, flags := range []uint8{0, FlagLZ4} {
		t.Run(fmt.Sprintf("flags=%d", flags), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteHeader(&buf, flags, math.MaxUint32))
			buf.WriteString("tiny")

			_, err := Decode(&buf)
			assert.ErrorContains(t, err, "snapshot too large")
		})
	}
}

func TestDecode_RejectsPayloadLongerThanHeader(t *testing.T) {
	payload, err := msgpack.Marshal(sampleSnapshot(2))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, 0, uint32(len(payload))))
	buf.Write(payload)
	buf.WriteString("trailing")

	_, err = Decode(&buf)
	assert.ErrorContains(t, err, "exceeds declared length")
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alice"+FileExtension)
	require.NoError(t, WriteFile(path, sampleSnapshot(3)))

	snap, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.BookCount())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.gcat"))
	assert.ErrorContains(t, err, "failed to open file")
}
