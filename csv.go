package staffdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const csvFields = 6

// ReadCSV parses lines of the form Type,id,name,department,salary,rating.
// Lines with the wrong number of fields are skipped. Lines that fail to
// parse are skipped too and reported together in the returned error, so
// callers still get every good record.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows := make([]Record, 0)
	var result *multierror.Error
	for line := 1; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(fields) != csvFields {
			continue
		}
		rec, err := parseCSVRecord(fields)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		rows = append(rows, rec)
	}
	return rows, result.ErrorOrNil()
}

func parseCSVRecord(fields []string) (Record, error) {
	subtype, err := ParseSubtype(fields[0])
	if err != nil {
		return Record{}, err
	}
	salary, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("salary: %w", err)
	}
	if math.IsNaN(salary) || math.IsInf(salary, 0) {
		return Record{}, fmt.Errorf("salary %q: %w", fields[4], ErrInvalidCompensation)
	}
	rating, err := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil {
		return Record{}, fmt.Errorf("rating: %w", err)
	}
	return Record{
		ID:                fields[1],
		Name:              fields[2],
		Department:        fields[3],
		BaseCompensation:  salary,
		PerformanceRating: rating,
		Subtype:           subtype,
	}, nil
}

// WriteCSV writes rows in the format ReadCSV reads.
func WriteCSV(w io.Writer, rows []Record) error {
	writer := csv.NewWriter(w)
	for _, r := range rows {
		err := writer.Write([]string{
			r.Subtype.String(),
			r.ID,
			r.Name,
			r.Department,
			formatFloat(r.BaseCompensation),
			strconv.Itoa(r.PerformanceRating),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
