package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"skillswap/internal/skills"
)

func TestExportWritesHeaderAndRows(t *testing.T) {
	catalog := []skills.Skill{
		{
			SkillID:        1,
			SkillName:      "Guitar Basics",
			Category:       "Music",
			ProviderName:   "Maya Chen",
			ProviderEmail:  "maya@example.com",
			Price:          35,
			Rating:         4.8,
			SlotsAvailable: 5,
			Description:    "Learn open chords",
			Image:          "guitar.jpg",
		},
		{SkillID: 2, SkillName: "Intro to Go", Category: "Tech", Rating: 4.9},
	}

	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, catalog); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "schemaVersion" || records[0][2] != "skillName" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != SchemaVersion {
		t.Fatalf("expected schema version %q, got %q", SchemaVersion, first[0])
	}
	if first[1] != "1" || first[2] != "Guitar Basics" || first[6] != "35.00" || first[7] != "4.8" {
		t.Fatalf("unexpected first row: %v", first)
	}
}

func TestExportEmptyCatalogStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVExporter().Export(&buf, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the header, got %d records", len(records))
	}
}
