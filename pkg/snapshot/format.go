package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes to identify the snapshot format
	MagicBytes = "GCAT"
	// Current version
	FormatVersion = 1
	// File extension for snapshot files
	FileExtension = ".gcat"
)

// Header flags
const (
	// FlagLZ4 marks an lz4 block-compressed payload. Without it the payload is
	// stored raw, which happens when it does not compress.
	FlagLZ4 uint8 = 1 << 0
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "GCAT"
	Version  uint8   // Format version
	Flags    uint8   // FlagLZ4 or 0
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed payload length
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, length uint32) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'C', 'A', 'T'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  length,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}
