// Package formats provides readers and writers for terrain file formats.
package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// HFD format errors.
var (
	ErrInvalidHFDMagic       = errors.New("invalid HFD magic: expected 'HFLD'")
	ErrUnsupportedHFDVersion = errors.New("unsupported HFD version")
	ErrTruncatedHFDData      = errors.New("truncated HFD data")
	ErrInvalidHFDDimensions  = errors.New("invalid HFD dimensions")
)

// hfdMagic opens every height-field file.
const hfdMagic = "HFLD"

// MaxHFDSize bounds each dimension of a height-field file.
const MaxHFDSize = 4096

// hfdHeaderSize is magic + version + width + height.
const hfdHeaderSize = 4 + 2 + 4 + 4

// HFDVersion represents the height-field file version.
type HFDVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v HFDVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// HasObjects reports whether files of this version carry an object table.
func (v HFDVersion) HasObjects() bool {
	return v.Major > 1 || (v.Major == 1 && v.Minor >= 1)
}

// CurrentHFDVersion is the version WriteHeightField emits.
var CurrentHFDVersion = HFDVersion{Major: 1, Minor: 1}

// ObjectRecord is one placed object in a height-field file.
type ObjectRecord struct {
	Kind uint8
	X    uint32
	Y    uint32
}

// HeightFieldFile represents a parsed height-field file.
type HeightFieldFile struct {
	Version HFDVersion
	Width   uint32
	Height  uint32
	Heights []float32 // row-major, Width*Height entries
	Objects []ObjectRecord
}

// At returns the height at (x, y), or 0 when out of bounds.
func (f *HeightFieldFile) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= int(f.Width) || y >= int(f.Height) {
		return 0
	}
	return f.Heights[y*int(f.Width)+x]
}

// ParseHeightField parses a height-field file from raw bytes.
func ParseHeightField(data []byte) (*HeightFieldFile, error) {
	if len(data) < hfdHeaderSize {
		return nil, ErrTruncatedHFDData
	}

	if string(data[0:4]) != hfdMagic {
		return nil, ErrInvalidHFDMagic
	}

	// Version is stored as [minor, major]
	version := HFDVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHFDVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var width, height uint32
	if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
		return nil, fmt.Errorf("%w: reading width", ErrTruncatedHFDData)
	}
	if err := binary.Read(r, binary.LittleEndian, &height); err != nil {
		return nil, fmt.Errorf("%w: reading height", ErrTruncatedHFDData)
	}
	if width == 0 || height == 0 || width > MaxHFDSize || height > MaxHFDSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidHFDDimensions, width, height)
	}

	cells := int64(width) * int64(height)
	if cells*4 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d heights declared, %d bytes left", ErrTruncatedHFDData, cells, r.Len())
	}

	f := &HeightFieldFile{
		Version: version,
		Width:   width,
		Height:  height,
		Heights: make([]float32, int(width)*int(height)),
	}
	if err := binary.Read(r, binary.LittleEndian, f.Heights); err != nil {
		return nil, fmt.Errorf("%w: reading %d heights", ErrTruncatedHFDData, len(f.Heights))
	}

	if !version.HasObjects() {
		return f, nil
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading object count", ErrTruncatedHFDData)
	}
	// Each record is 9 bytes; reject counts the remaining data cannot hold
	// before allocating.
	if int64(count)*9 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d objects declared, %d bytes left", ErrTruncatedHFDData, count, r.Len())
	}

	f.Objects = make([]ObjectRecord, count)
	for i := range f.Objects {
		obj, err := parseObjectRecord(r)
		if err != nil {
			return nil, fmt.Errorf("parsing object %d: %w", i, err)
		}
		f.Objects[i] = obj
	}

	return f, nil
}

func parseObjectRecord(r *bytes.Reader) (ObjectRecord, error) {
	var obj ObjectRecord

	kind, err := r.ReadByte()
	if err != nil {
		return ObjectRecord{}, fmt.Errorf("%w: reading kind", ErrTruncatedHFDData)
	}
	obj.Kind = kind

	if err := binary.Read(r, binary.LittleEndian, &obj.X); err != nil {
		return ObjectRecord{}, fmt.Errorf("%w: reading x", ErrTruncatedHFDData)
	}
	if err := binary.Read(r, binary.LittleEndian, &obj.Y); err != nil {
		return ObjectRecord{}, fmt.Errorf("%w: reading y", ErrTruncatedHFDData)
	}

	return obj, nil
}

// ParseHeightFieldFile parses a height-field file from disk.
func ParseHeightFieldFile(path string) (*HeightFieldFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading HFD file: %w", err)
	}
	return ParseHeightField(data)
}

// WriteHeightField encodes f in the current version. f.Version is ignored.
func WriteHeightField(w io.Writer, f *HeightFieldFile) error {
	if f.Width == 0 || f.Height == 0 || f.Width > MaxHFDSize || f.Height > MaxHFDSize {
		return fmt.Errorf("%w: %dx%d", ErrInvalidHFDDimensions, f.Width, f.Height)
	}
	if len(f.Heights) != int(f.Width)*int(f.Height) {
		return fmt.Errorf("%w: %d heights for %dx%d", ErrInvalidHFDDimensions, len(f.Heights), f.Width, f.Height)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(hfdMagic)
	bw.WriteByte(CurrentHFDVersion.Minor)
	bw.WriteByte(CurrentHFDVersion.Major)

	le := binary.LittleEndian
	binary.Write(bw, le, f.Width)
	binary.Write(bw, le, f.Height)
	binary.Write(bw, le, f.Heights)
	binary.Write(bw, le, uint32(len(f.Objects)))
	for _, obj := range f.Objects {
		bw.WriteByte(obj.Kind)
		binary.Write(bw, le, obj.X)
		binary.Write(bw, le, obj.Y)
	}

	// bufio keeps the first write error and returns it from Flush.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing HFD data: %w", err)
	}
	return nil
}

// WriteHeightFieldFile writes f to path, replacing any existing file.
func WriteHeightFieldFile(path string, f *HeightFieldFile) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating HFD file: %w", err)
	}
	if err := WriteHeightField(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// HeightRange returns the minimum and maximum height in the file.
func (f *HeightFieldFile) HeightRange() (min, max float32) {
	if len(f.Heights) == 0 {
		return 0, 0
	}

	min, max = f.Heights[0], f.Heights[0]
	for _, h := range f.Heights {
		if h < min {
			min = h
		}
		if h > max {
			max = h
		}
	}
	return min, max
}
