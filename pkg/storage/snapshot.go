package storage

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/ajitpratap0/lithic/pkg/compression"
	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/metrics"
	"github.com/ajitpratap0/lithic/pkg/types"
)

// snapshotMagic marks the head of a serialized chunk.
var snapshotMagic = [4]byte{'L', 'S', 'N', '1'}

const (
	segmentKindValue      byte = 0
	segmentKindDictionary byte = 1
)

// Snapshotter serializes chunks to compressed byte snapshots and back.
// The snapshot is a byte-level copy of the chunk's segments; deserializing
// restores each segment in its original form (a dictionary segment stays a
// dictionary segment, it is never decoded back to a mutable one).
type Snapshotter struct {
	compressor compression.Compressor
}

// NewSnapshotter creates a snapshotter with the given compression
// configuration. A nil config selects the compression default.
func NewSnapshotter(cfg *compression.Config) (*Snapshotter, error) {
	compressor, err := compression.NewCompressor(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "creating snapshot compressor")
	}
	return &Snapshotter{compressor: compressor}, nil
}

// SerializeChunk encodes a chunk and compresses the encoding.
func (s *Snapshotter) SerializeChunk(chunk *Chunk) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])

	if err := binary.Write(&buf, binary.LittleEndian, uint16(chunk.ColumnCount())); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(chunk.Size())); err != nil {
		return nil, err
	}

	for i := types.ColumnID(0); i < types.ColumnID(chunk.ColumnCount()); i++ {
		segment, err := chunk.GetSegment(i)
		if err != nil {
			return nil, err
		}
		if err := encodeSegment(&buf, segment); err != nil {
			return nil, err
		}
	}

	compressed, err := s.compressor.Compress(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "compressing chunk snapshot")
	}
	metrics.SnapshotBytes.WithLabelValues(string(s.compressor.Algorithm())).Observe(float64(len(compressed)))
	return compressed, nil
}

// DeserializeChunk decompresses and decodes a chunk snapshot.
func (s *Snapshotter) DeserializeChunk(data []byte) (*Chunk, error) {
	raw, err := s.compressor.Decompress(data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "decompressing chunk snapshot")
	}

	r := bytes.NewReader(raw)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil || magic != snapshotMagic {
		return nil, errors.New(errors.ErrorTypeValidation, "not a chunk snapshot")
	}

	var columnCount uint16
	var rowCount uint32
	if err := binary.Read(r, binary.LittleEndian, &columnCount); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rowCount); err != nil {
		return nil, err
	}

	chunk := NewChunk()
	for i := uint16(0); i < columnCount; i++ {
		segment, err := decodeSegment(r, types.ChunkOffset(rowCount))
		if err != nil {
			return nil, err
		}
		// Install directly; AddSegment refuses populated segments by design.
		chunk.segments = append(chunk.segments, segment)
	}
	return chunk, nil
}

// WriteChunk serializes a chunk to a writer.
func (s *Snapshotter) WriteChunk(w io.Writer, chunk *Chunk) error {
	data, err := s.SerializeChunk(chunk)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func dataTypeCode(dataType DataType) byte {
	for i, t := range DataTypes {
		if t == dataType {
			return byte(i)
		}
	}
	return math.MaxUint8
}

func encodeSegment(buf *bytes.Buffer, segment Segment) error {
	buf.WriteByte(dataTypeCode(segment.DataType()))

	switch s := segment.(type) {
	case *ValueSegment[int32]:
		return encodeValueSegment(buf, s)
	case *ValueSegment[int64]:
		return encodeValueSegment(buf, s)
	case *ValueSegment[float32]:
		return encodeValueSegment(buf, s)
	case *ValueSegment[float64]:
		return encodeValueSegment(buf, s)
	case *ValueSegment[string]:
		return encodeValueSegment(buf, s)
	case *DictionarySegment[int32]:
		return encodeDictionarySegment(buf, s)
	case *DictionarySegment[int64]:
		return encodeDictionarySegment(buf, s)
	case *DictionarySegment[float32]:
		return encodeDictionarySegment(buf, s)
	case *DictionarySegment[float64]:
		return encodeDictionarySegment(buf, s)
	case *DictionarySegment[string]:
		return encodeDictionarySegment(buf, s)
	default:
		return errors.Newf(errors.ErrorTypeValidation, "cannot snapshot segment of type %T", segment)
	}
}

func encodeValueSegment[T Element](buf *bytes.Buffer, s *ValueSegment[T]) error {
	buf.WriteByte(segmentKindValue)
	buf.WriteByte(boolByte(s.nullable))

	if err := encodeElements(buf, s.values); err != nil {
		return err
	}
	if s.nullable {
		for _, isNull := range s.nullFlags {
			buf.WriteByte(boolByte(isNull))
		}
	}
	return nil
}

func encodeDictionarySegment[T Element](buf *bytes.Buffer, s *DictionarySegment[T]) error {
	buf.WriteByte(segmentKindDictionary)
	buf.WriteByte(boolByte(s.nullable))

	if err := binary.Write(buf, binary.LittleEndian, uint32(len(s.dictionary))); err != nil {
		return err
	}
	if err := encodeElements(buf, s.dictionary); err != nil {
		return err
	}

	vector := s.attributeVector
	buf.WriteByte(byte(vector.Width()))
	for i := types.ChunkOffset(0); i < vector.Size(); i++ {
		id := uint32(vector.Get(i))
		switch vector.Width() {
		case 1:
			buf.WriteByte(byte(id))
		case 2:
			if err := binary.Write(buf, binary.LittleEndian, uint16(id)); err != nil {
				return err
			}
		default:
			if err := binary.Write(buf, binary.LittleEndian, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeElements writes a typed slice. Numerics are fixed-width little
// endian; strings are length-prefixed.
func encodeElements[T Element](buf *bytes.Buffer, values []T) error {
	if strs, ok := any(values).([]string); ok {
		for _, s := range strs {
			if err := binary.Write(buf, binary.LittleEndian, uint32(len(s))); err != nil {
				return err
			}
			buf.WriteString(s)
		}
		return nil
	}
	return binary.Write(buf, binary.LittleEndian, values)
}

func decodeSegment(r *bytes.Reader, rowCount types.ChunkOffset) (Segment, error) {
	typeCode, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if int(typeCode) >= len(DataTypes) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown data type code %d in snapshot", typeCode)
	}

	switch DataTypes[typeCode] {
	case DataTypeInt:
		return decodeTypedSegment[int32](r, rowCount)
	case DataTypeLong:
		return decodeTypedSegment[int64](r, rowCount)
	case DataTypeFloat:
		return decodeTypedSegment[float32](r, rowCount)
	case DataTypeDouble:
		return decodeTypedSegment[float64](r, rowCount)
	default:
		return decodeTypedSegment[string](r, rowCount)
	}
}

func decodeTypedSegment[T Element](r *bytes.Reader, rowCount types.ChunkOffset) (Segment, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	nullableByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	nullable := nullableByte != 0

	switch kind {
	case segmentKindValue:
		values, err := decodeElements[T](r, rowCount)
		if err != nil {
			return nil, err
		}
		nullFlags := make([]bool, rowCount)
		if nullable {
			for i := range nullFlags {
				b, err := r.ReadByte()
				if err != nil {
					return nil, err
				}
				nullFlags[i] = b != 0
			}
		}
		return &ValueSegment[T]{values: values, nullFlags: nullFlags, nullable: nullable}, nil

	case segmentKindDictionary:
		var dictLen uint32
		if err := binary.Read(r, binary.LittleEndian, &dictLen); err != nil {
			return nil, err
		}
		dictionary, err := decodeElements[T](r, types.ChunkOffset(dictLen))
		if err != nil {
			return nil, err
		}
		width, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		vector, err := decodeAttributeVector(r, width, rowCount)
		if err != nil {
			return nil, err
		}
		return &DictionarySegment[T]{dictionary: dictionary, attributeVector: vector, nullable: nullable}, nil

	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown segment kind %d in snapshot", kind)
	}
}

func decodeElements[T Element](r *bytes.Reader, count types.ChunkOffset) ([]T, error) {
	values := make([]T, count)
	if strs, ok := any(values).([]string); ok {
		for i := range strs {
			var length uint32
			if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
				return nil, err
			}
			raw := make([]byte, length)
			if _, err := io.ReadFull(r, raw); err != nil {
				return nil, err
			}
			strs[i] = string(raw)
		}
		return values, nil
	}
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	return values, nil
}

func decodeAttributeVector(r *bytes.Reader, width byte, size types.ChunkOffset) (AttributeVector, error) {
	switch width {
	case 1:
		vector := NewFixedWidthVector[uint8](size)
		for i := types.ChunkOffset(0); i < size; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			vector.Set(i, types.ValueID(b))
		}
		return vector, nil
	case 2:
		vector := NewFixedWidthVector[uint16](size)
		for i := types.ChunkOffset(0); i < size; i++ {
			var v uint16
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			vector.Set(i, types.ValueID(v))
		}
		return vector, nil
	case 4:
		vector := NewFixedWidthVector[uint32](size)
		for i := types.ChunkOffset(0); i < size; i++ {
			var v uint32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, err
			}
			vector.Set(i, types.ValueID(v))
		}
		return vector, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown attribute vector width %d in snapshot", width)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
