package exporter

import (
	"encoding/csv"
	"io"
	"strconv"

	"skillswap/internal/skills"
)

// SchemaVersion identifies the CSV export format version. Increment when
// adding columns or changing the format.
const SchemaVersion = "1"

// csvColumns defines the column order for export. The columns match what the
// CSV catalog source accepts, so an export can be loaded back as a catalog.
var csvColumns = []string{
	"schemaVersion",
	"skillId",
	"skillName",
	"category",
	"providerName",
	"providerEmail",
	"price",
	"rating",
	"slotsAvailable",
	"description",
	"image",
}

// CSVExporter writes the skill catalog as CSV.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes the skill list to w in CSV format. The output round-trips
// through the CSV catalog source.
func (e *CSVExporter) Export(w io.Writer, skillList []skills.Skill) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(csvColumns); err != nil {
		return err
	}

	for _, skill := range skillList {
		record := []string{
			SchemaVersion,
			strconv.Itoa(skill.SkillID),
			skill.SkillName,
			skill.Category,
			skill.ProviderName,
			skill.ProviderEmail,
			strconv.FormatFloat(skill.Price, 'f', 2, 64),
			strconv.FormatFloat(skill.Rating, 'f', 1, 64),
			strconv.Itoa(skill.SlotsAvailable),
			skill.Description,
			skill.Image,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
