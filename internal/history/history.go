// Package history reads the historical workout logs recommendations are mined from.
package history

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/myrjola/fitrec/internal/body"
	"github.com/myrjola/fitrec/internal/errors"
)

// MaxWorkoutSlots is the number of workout name columns per record.
const MaxWorkoutSlots = 7

// Column names of the CSV dataset.
const (
	ColumnWeight        = "Berat Badan (kg)"
	ColumnHeight        = "Tinggi Badan (cm)"
	ColumnBMI           = "BMI"
	ColumnBMICategory   = "Kategori BMI"
	ColumnAgeCategory   = "Kategori Usia"
	ColumnTotalWorkouts = "Jumlah Workout"
	columnWorkoutPrefix = "Workout "
)

var ErrMissingColumn = errors.NewSentinel("missing column")

// Record is one row of the historical dataset.
//
// BMICategory and AgeBracket are the labels stored in the dataset. They are not recomputed from the measurements and
// may disagree with what [body.ClassifyBMI] and [body.ClassifyAge] would assign.
type Record struct {
	WeightKg    float64
	HeightCm    float64
	BMI         float64
	BMICategory string
	AgeBracket  string
	// Workouts holds the workout name slots in column order. Empty strings are empty slots.
	Workouts []string
	// TotalWorkouts is nil when the row does not record a workout count.
	TotalWorkouts *float64
}

// WorkoutColumn returns the CSV column name of the 1-based workout slot.
func WorkoutColumn(slot int) string {
	return columnWorkoutPrefix + strconv.Itoa(slot)
}

type columnIndex struct {
	weight, height, bmi, bmiCategory, ageCategory, total int
	workouts                                              []int
}

type requiredColumn struct {
	name  string
	index int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimPrefix(h, "\ufeff")] = i
	}
	col := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	idx := columnIndex{
		weight:      col(ColumnWeight),
		height:      col(ColumnHeight),
		bmi:         col(ColumnBMI),
		bmiCategory: col(ColumnBMICategory),
		ageCategory: col(ColumnAgeCategory),
		total:       col(ColumnTotalWorkouts),
		workouts:    nil,
	}
	for slot := 1; slot <= MaxWorkoutSlots; slot++ {
		if i := col(WorkoutColumn(slot)); i >= 0 {
			idx.workouts = append(idx.workouts, i)
		}
	}

	required := []requiredColumn{{ColumnBMICategory, idx.bmiCategory}, {ColumnAgeCategory, idx.ageCategory}}
	if idx.bmi < 0 {
		required = append(required, requiredColumn{ColumnWeight, idx.weight}, requiredColumn{ColumnHeight, idx.height})
	}
	for _, r := range required {
		if r.index < 0 {
			return columnIndex{}, errors.Wrap(ErrMissingColumn, "index columns", slog.String("column", r.name))
		}
	}
	return idx, nil
}

// ReadCSV parses the historical dataset. The BMI is computed from weight and height when the dataset has no BMI
// column.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row", slog.Int("line", line))
		}
		rec, err := idx.parse(row)
		if err != nil {
			return nil, errors.Wrap(err, "parse row", slog.Int("line", line))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (idx columnIndex) parse(row []string) (Record, error) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var (
		rec = Record{
			WeightKg:      0,
			HeightCm:      0,
			BMI:           0,
			BMICategory:   field(idx.bmiCategory),
			AgeBracket:    field(idx.ageCategory),
			Workouts:      make([]string, 0, len(idx.workouts)),
			TotalWorkouts: nil,
		}
		err error
	)
	if rec.WeightKg, err = parseOptionalFloat(field(idx.weight), ColumnWeight); err != nil {
		return Record{}, err
	}
	if rec.HeightCm, err = parseOptionalFloat(field(idx.height), ColumnHeight); err != nil {
		return Record{}, err
	}
	if idx.bmi >= 0 {
		if rec.BMI, err = parseOptionalFloat(field(idx.bmi), ColumnBMI); err != nil {
			return Record{}, err
		}
	} else if rec.WeightKg > 0 && rec.HeightCm > 0 {
		rec.BMI = body.ComputeBMI(rec.WeightKg, rec.HeightCm)
	}

	if v := strings.TrimSpace(field(idx.total)); v != "" {
		total, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Record{}, errors.Wrap(err, "parse float", slog.String("column", ColumnTotalWorkouts))
		}
		rec.TotalWorkouts = &total
	}

	for _, i := range idx.workouts {
		rec.Workouts = append(rec.Workouts, field(i))
	}
	return rec, nil
}

func parseOptionalFloat(v, column string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse float", slog.String("column", column))
	}
	return f, nil
}

// LoadCSV reads the CSV dataset at path.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open dataset", slog.String("path", path))
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrap(err, "read dataset", slog.String("path", path))
	}
	return records, nil
}
