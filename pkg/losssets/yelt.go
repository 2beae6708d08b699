package losssets

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/analyzere/extras/pkg/errors"
)

// lossColumn is the YELT column holding the loss amount.
const lossColumn = "Loss"

// ParseYELT returns the Loss column of a YELT in row order. A YELT with a
// header and no rows yields an empty, non-nil slice.
func ParseYELT(data []byte) ([]float64, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "YELT is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read YELT header")
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == lossColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "YELT has no %s column", lossColumn)
	}

	losses := []float64{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			return losses, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read YELT")
		}
		if len(row) <= col {
			line, _ := r.FieldPos(0)
			return nil, errors.New(errors.ErrCodeInvalidInput, "YELT line %d has no %s value", line, lossColumn)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			line, _ := r.FieldPos(col)
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "YELT line %d", line)
		}
		losses = append(losses, v)
	}
}
