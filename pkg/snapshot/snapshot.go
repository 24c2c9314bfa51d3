package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

// MaxPayloadBytes bounds the uncompressed payload a snapshot may carry. Decode
// checks the header against it before allocating.
const MaxPayloadBytes = 1 << 30

// Snapshot is the portable content of one owner: its name and the books of
// every genre. Store-assigned ids are not kept; books get new ids on import.
type Snapshot struct {
	OwnerID   string                       `msgpack:"owner_id"`
	OwnerName string                       `msgpack:"owner_name"`
	CreatedAt time.Time                    `msgpack:"created_at"`
	Genres    map[string][]domain.Document `msgpack:"genres"`
}

// GenreNames returns the snapshot's genres in sorted order
func (s *Snapshot) GenreNames() []string {
	names := make([]string, 0, len(s.Genres))
	for g := range s.Genres {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

// BookCount is the number of books across all genres
func (s *Snapshot) BookCount() int {
	n := 0
	for _, books := range s.Genres {
		n += len(books)
	}
	return n
}

// Encode writes the header followed by the msgpack payload, lz4-compressed
// when that makes it smaller.
func Encode(w io.Writer, s *Snapshot) error {
	payload, err := msgpack.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if len(payload) > MaxPayloadBytes {
		return fmt.Errorf("snapshot too large: %d bytes, limit is %d", len(payload), MaxPayloadBytes)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	flags, body := uint8(0), payload
	if n > 0 && n < len(payload) {
		flags, body = FlagLZ4, compressed[:n]
	}

	if err := WriteHeader(w, flags, uint32(len(payload))); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Decode reads a snapshot written by Encode
func Decode(r io.Reader) (*Snapshot, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}
	if header.Length > MaxPayloadBytes {
		return nil, fmt.Errorf("snapshot too large: header declares %d bytes, limit is %d", header.Length, MaxPayloadBytes)
	}

	limit := int64(header.Length)
	if header.Flags&FlagLZ4 != 0 {
		limit = int64(lz4.CompressBlockBound(int(header.Length)))
	}
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("corrupt snapshot: payload exceeds declared length %d", header.Length)
	}

	payload := body
	if header.Flags&FlagLZ4 != 0 {
		payload = make([]byte, header.Length)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = payload[:n]
	}
	if len(payload) != int(header.Length) {
		return nil, fmt.Errorf("corrupt snapshot: expected %d payload bytes, got %d", header.Length, len(payload))
	}

	var s Snapshot
	if err := msgpack.NewDecoder(bytes.NewReader(payload)).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	if s.Genres == nil {
		s.Genres = map[string][]domain.Document{}
	}
	return &s, nil
}

// WriteFile saves s to filename
func WriteFile(filename string, s *Snapshot) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(file, s); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadFile loads a snapshot from filename
func ReadFile(filename string) (*Snapshot, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
