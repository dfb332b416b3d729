package tape

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/spool-ml/spool/internal/config"
	"github.com/spool-ml/spool/internal/idx"
	"github.com/spool-ml/spool/internal/num"
)

// Tape file format (float64 Jacobian tapes):
//
//	magic "SPTP" | version u32 | uuid 16B |
//	numStatements i64 | numEntries i64 | largestIdentifier i64 |
//	statements (lhs i32, first i64, n i32)* |
//	rhs identifiers i32* | jacobians f64* |
//	sha256 checksum 32B
//
// Adjoints are not persisted: the contract is only that the statement log
// round-trips exactly, so evaluate-after-reload matches
// evaluate-without-reload for the same seeding.

const (
	fileMagic   = "SPTP"
	fileVersion = 1
)

// Persistence errors.
var (
	ErrInvalidMagic       = errors.New("tape: invalid magic bytes")
	ErrUnsupportedVersion = errors.New("tape: unsupported file version")
	ErrChecksumMismatch   = errors.New("tape: checksum mismatch, file may be corrupted")
	ErrExternalFunctions  = errors.New("tape: tapes with external functions cannot be persisted")
	ErrMalformedTape      = errors.New("tape: malformed tape file")
)

// FileInfo describes a persisted tape.
type FileInfo struct {
	ID                uuid.UUID
	Version           uint32
	Statements        int64
	Entries           int64
	LargestIdentifier int64
}

// WriteFile persists the tape's statement log to path.
func WriteFile(t *Tape[num.Float64], path string) (FileInfo, error) {
	f, err := os.Create(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("tape: create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTo(t, f)
}

// WriteTo persists the tape's statement log to w.
func WriteTo(t *Tape[num.Float64], w io.Writer) (FileInfo, error) {
	if len(t.ext) > 0 {
		return FileInfo{}, ErrExternalFunctions
	}

	info := FileInfo{
		ID:                uuid.New(),
		Version:           fileVersion,
		Statements:        int64(t.stmts.len()),
		Entries:           int64(t.rhs.len()),
		LargestIdentifier: int64(t.ids.Largest()),
	}

	var buf bytes.Buffer
	buf.WriteString(fileMagic)
	writeU32(&buf, info.Version)
	buf.Write(info.ID[:])
	writeI64(&buf, info.Statements)
	writeI64(&buf, info.Entries)
	writeI64(&buf, info.LargestIdentifier)

	t.stmts.each(0, t.stmts.len(), func(_ int, s statement) {
		writeI32(&buf, int32(s.lhs))
		writeI64(&buf, s.first)
		writeI32(&buf, s.n)
	})
	t.rhs.each(0, t.rhs.len(), func(_ int, id idx.Identifier) {
		writeI32(&buf, int32(id))
	})
	t.jacs.each(0, t.jacs.len(), func(_ int, j num.Float64) {
		writeU64(&buf, math.Float64bits(float64(j)))
	})

	sum := sha256.Sum256(buf.Bytes())
	buf.Write(sum[:])

	if _, err := w.Write(buf.Bytes()); err != nil {
		return FileInfo{}, fmt.Errorf("tape: write: %w", err)
	}
	return info, nil
}

// ReadFile restores a tape persisted with WriteFile. The restored tape is
// passive; its identifier manager continues after the persisted
// high-water mark.
func ReadFile(opts config.Options, path string) (*Tape[num.Float64], FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FileInfo{}, fmt.Errorf("tape: read %s: %w", path, err)
	}
	return ReadBytes(opts, data)
}

// ReadInfo reads only the header of a persisted tape.
func ReadInfo(path string) (FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("tape: read %s: %w", path, err)
	}
	_, info, err := parseHeader(data)
	return info, err
}

// ReadBytes restores a tape from an in-memory image.
func ReadBytes(opts config.Options, data []byte) (*Tape[num.Float64], FileInfo, error) {
	r, info, err := parseHeader(data)
	if err != nil {
		return nil, FileInfo{}, err
	}

	// Checksum covers everything before the trailing digest.
	if len(data) < sha256.Size {
		return nil, FileInfo{}, ErrMalformedTape
	}
	body, sum := data[:len(data)-sha256.Size], data[len(data)-sha256.Size:]
	want := sha256.Sum256(body)
	if !bytes.Equal(sum, want[:]) {
		return nil, FileInfo{}, ErrChecksumMismatch
	}

	t := NewWithManager[num.Float64](opts,
		idx.NewLinearAt(idx.Identifier(info.LargestIdentifier), opts.CheckIdentifierOverflow))

	for i := int64(0); i < info.Statements; i++ {
		lhs, err := readI32(r)
		if err != nil {
			return nil, FileInfo{}, ErrMalformedTape
		}
		first, err := readI64(r)
		if err != nil {
			return nil, FileInfo{}, ErrMalformedTape
		}
		n, err := readI32(r)
		if err != nil {
			return nil, FileInfo{}, ErrMalformedTape
		}
		if first < 0 || n < 0 || first+int64(n) > info.Entries {
			return nil, FileInfo{}, ErrMalformedTape
		}
		t.stmts.push(statement{lhs: idx.Identifier(lhs), first: first, n: n})
	}
	for i := int64(0); i < info.Entries; i++ {
		id, err := readI32(r)
		if err != nil {
			return nil, FileInfo{}, ErrMalformedTape
		}
		t.rhs.push(idx.Identifier(id))
	}
	for i := int64(0); i < info.Entries; i++ {
		bits, err := readU64(r)
		if err != nil {
			return nil, FileInfo{}, ErrMalformedTape
		}
		t.jacs.push(num.Float64(math.Float64frombits(bits)))
	}
	return t, info, nil
}

func parseHeader(data []byte) (*bytes.Reader, FileInfo, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != fileMagic {
		return nil, FileInfo{}, ErrInvalidMagic
	}
	version, err := readU32(r)
	if err != nil {
		return nil, FileInfo{}, ErrMalformedTape
	}
	if version != fileVersion {
		return nil, FileInfo{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, FileInfo{}, ErrMalformedTape
	}
	numStmts, err := readI64(r)
	if err != nil {
		return nil, FileInfo{}, ErrMalformedTape
	}
	numEntries, err := readI64(r)
	if err != nil {
		return nil, FileInfo{}, ErrMalformedTape
	}
	largest, err := readI64(r)
	if err != nil {
		return nil, FileInfo{}, ErrMalformedTape
	}
	if numStmts < 0 || numEntries < 0 || largest < 0 {
		return nil, FileInfo{}, ErrMalformedTape
	}
	return r, FileInfo{
		ID:                id,
		Version:           version,
		Statements:        numStmts,
		Entries:           numEntries,
		LargestIdentifier: largest,
	}, nil
}

func writeU32(w io.Writer, v uint32) { binary.Write(w, binary.LittleEndian, v) }
func writeI32(w io.Writer, v int32)  { binary.Write(w, binary.LittleEndian, v) }
func writeI64(w io.Writer, v int64)  { binary.Write(w, binary.LittleEndian, v) }
func writeU64(w io.Writer, v uint64) { binary.Write(w, binary.LittleEndian, v) }

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readI32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readI64(r io.Reader) (int64, error) {
	var v int64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readU64(r io.Reader) (uint64, error) {
	var v uint64
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}
