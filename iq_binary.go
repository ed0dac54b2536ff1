package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/cwsl/nr_uplink/nr/prach"
	"github.com/cwsl/nr_uplink/nr/tables"
	"github.com/klauspost/compress/zstd"
)

// Binary Preamble Sample Format
// =============================
//
// A batch of frequency-domain PRACH preambles, all with the same sequence
// length L_RA. Multi-byte fields are little-endian.
//
// FILE HEADER (24 bytes):
// -----------------------
// Offset | Size | Type    | Description
// -------|------|---------|--------------------------------------------------
// 0      | 2    | uint16  | Magic bytes: 0x5052 ("PR" for PRACH)
// 2      | 1    | uint8   | Version: 1
// 3      | 1    | uint8   | Format type: 0=raw, 1=zstd
// 4      | 4    | uint32  | Number of preamble records
// 8      | 4    | uint32  | L_RA, complex samples per record
// 12     | 12   | uint32  | Reserved (3 words)
//
// RECORD (16 bytes header + 8*L_RA bytes):
// ----------------------------------------
// Offset | Size | Type    | Description
// -------|------|---------|--------------------------------------------------
// 0      | 2    | uint16  | Preamble ID
// 2      | 2    | uint16  | Cyclic shift C_v
// 4      | 2    | uint16  | Physical root sequence u
// 6      | 2    | uint16  | PRACH configuration index
// 8      | 8    | uint64  | Reserved
// 16     | 8*N  | float32 | Samples as interleaved (re, im) pairs
//
// COMPRESSION:
// -----------
// When format type is 1 everything after the file header is one zstd frame.
// The file header itself is never compressed so a reader can size its buffers
// before decompressing.

const (
	IQBinaryMagic   uint16 = 0x5052 // "PR"
	IQBinaryVersion uint8  = 1

	// Format types
	IQFormatRaw  uint8 = 0
	IQFormatZstd uint8 = 1

	IQFileHeaderSize   = 24
	IQRecordHeaderSize = 16

	// Limits enforced on decode
	IQMaxSequenceLength = 839     // Longest PRACH sequence, L_RA for formats 0-3
	IQMaxBodySize       = 1 << 31 // Decoded record data

	zstdMinDecoderMemory = 1 << 20
)

// IQFileHeader is the decoded file header
type IQFileHeader struct {
	Version uint8
	Format  uint8
	Count   int
	LRA     int
}

// IQRecord is one decoded preamble record
type IQRecord struct {
	PreambleID           int
	CyclicShift          int
	PhysicalRootSequence int
	ConfigurationIndex   tables.ConfigurationIndex
	Samples              []complex64
}

// IQBinaryEncoder encodes preamble batches with optional compression
type IQBinaryEncoder struct {
	useCompression bool
	zstdEncoder    *zstd.Encoder
	encoderMu      sync.Mutex

	batchCount  uint64
	recordCount uint64
}

// zstdEncoderPool provides reusable zstd encoders
var zstdEncoderPool = sync.Pool{
	New: func() interface{} {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			log.Printf("ERROR: Failed to create zstd encoder: %v", err)
			return (*zstd.Encoder)(nil)
		}
		return encoder
	},
}

// NewIQBinaryEncoder creates a new preamble batch encoder
func NewIQBinaryEncoder(useCompression bool) *IQBinaryEncoder {
	encoder := &IQBinaryEncoder{useCompression: useCompression}
	if useCompression {
		encoder.zstdEncoder = zstdEncoderPool.Get().(*zstd.Encoder)
	}
	return encoder
}

// EncodeBatch encodes preambles into one file image. All preambles must share L_RA.
func (e *IQBinaryEncoder) EncodeBatch(preambles []*prach.Preamble) ([]byte, error) {
	e.encoderMu.Lock()
	defer e.encoderMu.Unlock()

	if e.useCompression && e.zstdEncoder == nil {
		return nil, fmt.Errorf("compression requested but no zstd encoder is available")
	}

	lra := 0
	if len(preambles) > 0 {
		lra = preambles[0].LRA
	}
	if lra > IQMaxSequenceLength {
		return nil, fmt.Errorf("L_RA %d exceeds %d", lra, IQMaxSequenceLength)
	}
	for i, p := range preambles {
		if p.LRA != lra || len(p.Samples) != lra {
			return nil, fmt.Errorf("preamble %d has %d samples (L_RA %d), batch L_RA is %d", i, len(p.Samples), p.LRA, lra)
		}
		if p.PreambleID > math.MaxUint16 || p.CyclicShift > math.MaxUint16 ||
			p.PhysicalRootSequence > math.MaxUint16 || int(p.ConfigurationIndex) > math.MaxUint16 {
			return nil, fmt.Errorf("preamble %d does not fit the record header", i)
		}
	}

	recordSize := IQRecordHeaderSize + 8*lra
	body := make([]byte, len(preambles)*recordSize)
	for i, p := range preambles {
		putRecord(body[i*recordSize:(i+1)*recordSize], p)
	}

	format := IQFormatRaw
	if e.useCompression {
		format = IQFormatZstd
		body = e.zstdEncoder.EncodeAll(body, make([]byte, 0, len(body)/2))
	}

	out := make([]byte, IQFileHeaderSize, IQFileHeaderSize+len(body))
	binary.LittleEndian.PutUint16(out[0:], IQBinaryMagic)
	out[2] = IQBinaryVersion
	out[3] = format
	binary.LittleEndian.PutUint32(out[4:], uint32(len(preambles)))
	binary.LittleEndian.PutUint32(out[8:], uint32(lra))
	// 12..23 reserved, left zero
	out = append(out, body...)

	e.batchCount++
	e.recordCount += uint64(len(preambles))
	return out, nil
}

func putRecord(buf []byte, p *prach.Preamble) {
	binary.LittleEndian.PutUint16(buf[0:], uint16(p.PreambleID))
	binary.LittleEndian.PutUint16(buf[2:], uint16(p.CyclicShift))
	binary.LittleEndian.PutUint16(buf[4:], uint16(p.PhysicalRootSequence))
	binary.LittleEndian.PutUint16(buf[6:], uint16(p.ConfigurationIndex))
	binary.LittleEndian.PutUint64(buf[8:], 0)

	offset := IQRecordHeaderSize
	for _, s := range p.Samples {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(real(s)))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(imag(s)))
		offset += 8
	}
}

// Close releases resources used by the encoder
func (e *IQBinaryEncoder) Close() {
	if e.zstdEncoder != nil {
		zstdEncoderPool.Put(e.zstdEncoder)
		e.zstdEncoder = nil
	}
}

// GetStats returns statistics about the encoder's operation
func (e *IQBinaryEncoder) GetStats() map[string]interface{} {
	e.encoderMu.Lock()
	defer e.encoderMu.Unlock()

	return map[string]interface{}{
		"batchCount":     e.batchCount,
		"recordCount":    e.recordCount,
		"useCompression": e.useCompression,
	}
}

// DecodeIQBatch parses a file image written by EncodeBatch
func DecodeIQBatch(data []byte) (*IQFileHeader, []IQRecord, error) {
	if len(data) < IQFileHeaderSize {
		return nil, nil, fmt.Errorf("short file header: %d bytes", len(data))
	}
	if magic := binary.LittleEndian.Uint16(data[0:]); magic != IQBinaryMagic {
		return nil, nil, fmt.Errorf("bad magic 0x%04x", magic)
	}
	header := &IQFileHeader{
		Version: data[2],
		Format:  data[3],
	}
	if header.Version != IQBinaryVersion {
		return nil, nil, fmt.Errorf("unsupported version %d", header.Version)
	}

	// Size the record data from the header before trusting any of it
	count := uint64(binary.LittleEndian.Uint32(data[4:]))
	lra := uint64(binary.LittleEndian.Uint32(data[8:]))
	if lra > IQMaxSequenceLength {
		return nil, nil, fmt.Errorf("L_RA %d exceeds %d", lra, IQMaxSequenceLength)
	}
	recordSize := uint64(IQRecordHeaderSize + 8*lra)
	bodySize := count * recordSize
	if bodySize > IQMaxBodySize {
		return nil, nil, fmt.Errorf("%d records of L_RA %d exceed %d bytes", count, lra, IQMaxBodySize)
	}
	header.Count = int(count)
	header.LRA = int(lra)

	body := data[IQFileHeaderSize:]
	switch header.Format {
	case IQFormatRaw:
	case IQFormatZstd:
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(max(bodySize, zstdMinDecoderMemory)))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer decoder.Close()
		if body, err = decoder.DecodeAll(body, nil); err != nil {
			return nil, nil, fmt.Errorf("failed to decompress records: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unknown format type %d", header.Format)
	}

	if uint64(len(body)) != bodySize {
		return nil, nil, fmt.Errorf("record data is %d bytes, want %d", len(body), bodySize)
	}

	records := make([]IQRecord, header.Count)
	for i := range records {
		buf := body[uint64(i)*recordSize : uint64(i+1)*recordSize]
		rec := IQRecord{
			PreambleID:           int(binary.LittleEndian.Uint16(buf[0:])),
			CyclicShift:          int(binary.LittleEndian.Uint16(buf[2:])),
			PhysicalRootSequence: int(binary.LittleEndian.Uint16(buf[4:])),
			ConfigurationIndex:   tables.ConfigurationIndex(binary.LittleEndian.Uint16(buf[6:])),
			Samples:              make([]complex64, header.LRA),
		}
		for k := range rec.Samples {
			offset := IQRecordHeaderSize + 8*k
			re := math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+4:]))
			rec.Samples[k] = complex(re, im)
		}
		records[i] = rec
	}
	return header, records, nil
}
