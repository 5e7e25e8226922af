package featureset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sansecio/simprint/internal/features"
)

const (
	fileMagic   = "SPFS"
	fileVersion = 1
	headerSize  = 16 // 4 magic + 2 version + 2 hash + 8 count
)

// ErrFormat is returned for files that are not feature set files or are
// damaged.
var ErrFormat = errors.New("invalid feature set file")

type fileHeader struct {
	Magic   [4]byte
	Version uint16
	Hash    uint16
	Count   uint64
}

// Open reads a feature set file into memory.
func Open(path string) (*Set, error) {
	hdr, data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return FromSlice(features.Hash(hdr.Hash), data), nil
}

// Save writes the set to path atomically, features in ascending order.
func (s *Set) Save(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "simprint_temp_set")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	defer f.Close()

	data := s.Slice()
	hdr := fileHeader{
		Version: fileVersion,
		Hash:    uint16(s.Hash),
		Count:   uint64(len(data)),
	}
	copy(hdr.Magic[:], fileMagic)

	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("writing data: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

func readFile(path string) (fileHeader, []uint64, error) {
	var hdr fileHeader

	fi, err := os.Stat(path)
	if err != nil {
		return hdr, nil, err
	}
	size := fi.Size()
	if size < headerSize {
		return hdr, nil, fmt.Errorf("%w: too small for header", ErrFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return hdr, nil, err
	}
	defer f.Close()

	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		return hdr, nil, fmt.Errorf("reading header: %w", err)
	}
	if string(hdr.Magic[:]) != fileMagic {
		return hdr, nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	if hdr.Version != fileVersion {
		return hdr, nil, fmt.Errorf("%w: unsupported version %d (max supported: %d)", ErrFormat, hdr.Version, fileVersion)
	}
	if !features.Hash(hdr.Hash).Valid() {
		return hdr, nil, fmt.Errorf("%w: unknown feature hash %d", ErrFormat, hdr.Hash)
	}
	dataSize := size - headerSize
	if dataSize%8 != 0 {
		return hdr, nil, fmt.Errorf("%w: truncated data", ErrFormat)
	}
	count := dataSize / 8
	if count != int64(hdr.Count) {
		return hdr, nil, fmt.Errorf("%w: header count %d doesn't match data (%d entries)", ErrFormat, hdr.Count, count)
	}
	data := make([]uint64, count)
	if err := binary.Read(f, binary.LittleEndian, data); err != nil {
		return hdr, nil, fmt.Errorf("reading data: %w", err)
	}
	return hdr, data, nil
}
