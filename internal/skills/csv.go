package skills

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrInvalidCSV = errors.New("invalid csv catalog")

// MaxCSVRows limits the number of data rows accepted from a CSV catalog to
// keep a malformed or runaway file from blowing up memory.
const MaxCSVRows = 1000

var csvRequiredColumns = []string{
	"skillid",
	"skillname",
	"category",
	"providername",
	"provideremail",
	"price",
	"rating",
	"slotsavailable",
	"description",
	"image",
}

// CSVSource loads the skill catalog from a CSV file. Like FileSource it
// re-reads the file on every call, so catalog edits show up without a
// restart.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]Skill, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open skill catalog: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return decodeCSV(f)
}

func decodeCSV(r io.Reader) ([]Skill, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", ErrInvalidCSV)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvRequiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, required)
		}
	}

	var result []Skill
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidCSV, row+2, err)
		}

		row++
		if row > MaxCSVRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidCSV, MaxCSVRows)
		}

		skill, err := skillFromRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidCSV, row+1, err)
		}
		result = append(result, skill)
	}

	return result, nil
}

func skillFromRecord(record []string, columns map[string]int) (Skill, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	id, err := strconv.Atoi(field("skillid"))
	if err != nil {
		return Skill{}, fmt.Errorf("skillId: %v", err)
	}
	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil {
		return Skill{}, fmt.Errorf("price: %v", err)
	}
	rating, err := strconv.ParseFloat(field("rating"), 64)
	if err != nil {
		return Skill{}, fmt.Errorf("rating: %v", err)
	}
	slots, err := strconv.Atoi(field("slotsavailable"))
	if err != nil {
		return Skill{}, fmt.Errorf("slotsAvailable: %v", err)
	}

	name := field("skillname")
	if name == "" {
		return Skill{}, errors.New("skillName is required")
	}

	return Skill{
		SkillID:        id,
		SkillName:      name,
		Category:       field("category"),
		ProviderName:   field("providername"),
		ProviderEmail:  field("provideremail"),
		Price:          price,
		Rating:         rating,
		SlotsAvailable: slots,
		Description:    field("description"),
		Image:          field("image"),
	}, nil
}
