package core

import (
	"fmt"

	"github.com/coregx/tabsert/internal/dialects"
)

// Chunk is a contiguous, order-preserving slice of dataset rows sized so
// that rows*(columns+key levels) stays within the dialect parameter limit.
type Chunk struct {
	// Start is the index of the first row (inclusive).
	Start int
	// End is the index past the last row (exclusive).
	End int
}

// Rows returns the number of rows in the chunk.
func (c Chunk) Rows() int { return c.End - c.Start }

// planChunks partitions rowCount rows into ordered chunks. A requested
// chunksize of zero means "one chunk with all rows", capped at the largest
// row count the dialect's parameter limit allows. An explicit
// caller-requested chunksize is never silently shrunk: exceeding the limit
// is a configuration error the caller must avoid, and the resulting
// statement will fail at the database. The only pre-empted case is a
// parameter count no chunk size could satisfy.
func planChunks(rowCount, paramsPerRow, limit, requested int) ([]Chunk, error) {
	if requested < 0 {
		return nil, ErrInvalidChunksize
	}
	if paramsPerRow > limit {
		return nil, fmt.Errorf("%w: %d parameters per row, dialect limit %d",
			ErrTooManyColumns, paramsPerRow, limit)
	}
	if rowCount == 0 {
		return nil, nil
	}
	size := requested
	if size == 0 {
		size = limit / paramsPerRow
		if size > rowCount {
			size = rowCount
		}
	}

	chunks := make([]Chunk, 0, (rowCount+size-1)/size)
	for start := 0; start < rowCount; start += size {
		end := start + size
		if end > rowCount {
			end = rowCount
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks, nil
}

// SafeChunksize computes the largest chunksize whose statements stay within
// the dialect's bound-parameter limit for a dataset of the given shape. It
// is advisory only; the execution path never adjusts a caller's chunksize.
func SafeChunksize(driverName string, columns, keyLevels int) (int, error) {
	d, ok := dialects.Get(driverName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedDialect, driverName)
	}
	paramsPerRow := columns + keyLevels
	if paramsPerRow <= 0 {
		return 0, fmt.Errorf("%w: dataset has no columns", ErrTooManyColumns)
	}
	size := d.ParameterLimit() / paramsPerRow
	if size < 1 {
		return 0, fmt.Errorf("%w: %d parameters per row, dialect limit %d",
			ErrTooManyColumns, paramsPerRow, d.ParameterLimit())
	}
	return size, nil
}
