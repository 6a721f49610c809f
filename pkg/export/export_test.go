package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() Document {
	headers := []string{"Semaine", "Module1(VH)/Classe", "Module2(VH)/Classe"}
	return Document{
		Title:    "Emploi du temps",
		Subtitle: []string{"Dr Awa Traoré", "Semestre S1 2024-2025"},
		Dataset: DatasetFromRows(headers, [][]string{
			{"03 au 07 février 2025", "TD TD Algo (3h) L1 Info", ""},
			{"10 au 14 février 2025", "", ""},
		}),
		Footer: []string{"Total heures dispensées : 3h", "Heures dues : 56h"},
	}
}

func TestCSVExporterRenderTableOnly(t *testing.T) {
	data := DatasetFromRows([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}})
	out, err := NewCSVExporter().RenderDocument(Document{Dataset: data})
	require.NoError(t, err)
	assert.Equal(t, "A,B\n1,2\n3,\n", string(out))
}

func TestCSVExporterRenderDocument(t *testing.T) {
	out, err := NewCSVExporter().RenderDocument(sampleDocument())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// csv.Reader skips the blank separator lines
	require.Len(t, records, 8)
	assert.Equal(t, []string{"Emploi du temps"}, records[0])
	assert.Equal(t, []string{"Semestre S1 2024-2025"}, records[2])
	assert.Equal(t, []string{"Semaine", "Module1(VH)/Classe", "Module2(VH)/Classe"}, records[3])
	assert.Equal(t, []string{"03 au 07 février 2025", "TD TD Algo (3h) L1 Info", ""}, records[4])
	assert.Equal(t, []string{"Total heures dispensées : 3h"}, records[6])
	assert.Equal(t, []string{"Heures dues : 56h"}, records[7])

	assert.Contains(t, string(out), "Semestre S1 2024-2025\n\nSemaine,")
	assert.Contains(t, string(out), "10 au 14 février 2025,,\n\nTotal heures")
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().RenderDocument(Document{Title: "Emploi du temps"})
	require.Error(t, err)
}

func TestPDFExporterRenderDocument(t *testing.T) {
	out, err := NewPDFExporter().RenderDocument(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFWriteLinesWrapsLongFooter(t *testing.T) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	legend := "Légende : CM = cours magistral, TD = travaux dirigés, TP = travaux pratiques, UE COMMUNE = unité d'enseignement commune"
	require.Greater(t, pdf.GetStringWidth(tr(legend)), 190.0)

	top := pdf.GetY()
	writeLines(pdf, tr, []string{legend})
	assert.InDelta(t, 12.0, pdf.GetY()-top, 0.01)

	top = pdf.GetY()
	writeLines(pdf, tr, []string{"Heures dues : 56h"})
	assert.InDelta(t, 6.0, pdf.GetY()-top, 0.01)
	require.NoError(t, pdf.Error())
}

func TestXLSXExporterRenderDocument(t *testing.T) {
	out, err := NewXLSXExporter().RenderDocument(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(xlsxSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Emploi du temps", title)

	header, err := f.GetCellValue(xlsxSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "Module1(VH)/Classe", header)

	cell, err := f.GetCellValue(xlsxSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "TD TD Algo (3h) L1 Info", cell)
}

func TestICSExporterRenderDocument(t *testing.T) {
	doc := sampleDocument()
	doc.Events = []CalendarEvent{{
		UID:         "e-1@eduwaly",
		Summary:     "TD Algo (3h) L1 Info",
		Description: "3h",
		Start:       time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC),
	}}
	exporter := NewICSExporter()
	exporter.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC) }

	out, err := exporter.RenderDocument(doc)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "e-1@eduwaly", events[0].Id())
	assert.Equal(t, "TD Algo (3h) L1 Info", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20250203", events[0].GetProperty(ics.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20250208", events[0].GetProperty(ics.ComponentPropertyDtEnd).Value)
}

func TestICSExporterRejectsInvertedEvent(t *testing.T) {
	doc := Document{Events: []CalendarEvent{{
		UID:   "bad",
		Start: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
	}}}
	_, err := NewICSExporter().RenderDocument(doc)
	assert.Error(t, err)
}
