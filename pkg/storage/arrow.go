package storage

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
)

// ArrowSchema converts a table schema to an Arrow schema. NULL-admitting
// columns become nullable Arrow fields.
func ArrowSchema(t *Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(t.columnNames))
	for i, name := range t.columnNames {
		arrowType, err := arrowTypeOf(t.columnTypes[i])
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     arrowType,
			Nullable: t.columnNullable[i],
		})
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowTypeOf(dataType DataType) (arrow.DataType, error) {
	switch dataType {
	case DataTypeInt:
		return arrow.PrimitiveTypes.Int32, nil
	case DataTypeLong:
		return arrow.PrimitiveTypes.Int64, nil
	case DataTypeFloat:
		return arrow.PrimitiveTypes.Float32, nil
	case DataTypeDouble:
		return arrow.PrimitiveTypes.Float64, nil
	case DataTypeString:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown data type %q", dataType)
	}
}

// ChunkToRecord exports one chunk as an Arrow record. NULL cells become
// Arrow nulls. The caller releases the record.
func ChunkToRecord(t *Table, chunkID types.ChunkID) (arrow.Record, error) {
	schema, err := ArrowSchema(t)
	if err != nil {
		return nil, err
	}
	chunk, err := t.GetChunk(chunkID)
	if err != nil {
		return nil, err
	}

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for columnID := range t.columnNames {
		segment, err := chunk.GetSegment(types.ColumnID(columnID))
		if err != nil {
			return nil, err
		}
		if err := appendColumn(builder.Field(columnID), segment); err != nil {
			return nil, err
		}
	}

	return builder.NewRecord(), nil
}

// appendColumn copies one segment into an Arrow array builder.
func appendColumn(fieldBuilder array.Builder, segment Segment) error {
	size := segment.Size()
	for i := types.ChunkOffset(0); i < size; i++ {
		cell := segment.At(i)
		if cell.IsNull() {
			fieldBuilder.AppendNull()
			continue
		}
		switch b := fieldBuilder.(type) {
		case *array.Int32Builder:
			v, err := cell.AsInt32()
			if err != nil {
				return err
			}
			b.Append(v)
		case *array.Int64Builder:
			v, err := cell.AsInt64()
			if err != nil {
				return err
			}
			b.Append(v)
		case *array.Float32Builder:
			v, err := cell.AsFloat32()
			if err != nil {
				return err
			}
			b.Append(v)
		case *array.Float64Builder:
			v, err := cell.AsFloat64()
			if err != nil {
				return err
			}
			b.Append(v)
		case *array.StringBuilder:
			v, err := cell.AsString()
			if err != nil {
				return err
			}
			b.Append(v)
		default:
			return errors.Newf(errors.ErrorTypeValidation, "unsupported arrow builder %T", fieldBuilder)
		}
	}
	return nil
}

// TableToRecords exports every chunk of a table as one Arrow record each.
// The caller releases the records.
func TableToRecords(t *Table) ([]arrow.Record, error) {
	records := make([]arrow.Record, 0, len(t.chunks))
	for chunkID := range t.chunks {
		record, err := ChunkToRecord(t, types.ChunkID(chunkID))
		if err != nil {
			for _, r := range records {
				r.Release()
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// WriteArrowIPC streams the whole table to an Arrow IPC file, one record
// batch per chunk.
func WriteArrowIPC(w io.Writer, t *Table) error {
	schema, err := ArrowSchema(t)
	if err != nil {
		return err
	}

	pool := memory.NewGoAllocator()
	fileWriter, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "creating arrow writer")
	}

	records, err := TableToRecords(t)
	if err != nil {
		return err
	}
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()

	for _, record := range records {
		if err := fileWriter.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "writing arrow record")
		}
	}
	return fileWriter.Close()
}
