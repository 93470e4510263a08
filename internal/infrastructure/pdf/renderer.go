// Package pdf renders project status reports and drives their asynchronous
// generation.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

const (
	lineHeight = 6.0
	pageWidth  = 190.0
)

// Render lays out snap as an A4 document and returns the PDF bytes.
func Render(snap *ports.ReportSnapshot, generatedAt time.Time) ([]byte, error) {
	if snap == nil || snap.Project == nil {
		return nil, fmt.Errorf("render report: empty snapshot")
	}
	p := snap.Project

	doc := fpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(p.Title, true)
	doc.SetCreator("legacyapp-api", true)
	doc.SetCreationDate(generatedAt)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(pageWidth, 10, tr(p.Title), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(pageWidth, lineHeight, tr("Status: "+string(p.Status)), "", 1, "L", false, 0, "")
	doc.CellFormat(pageWidth, lineHeight, "Generated: "+generatedAt.UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")
	doc.CellFormat(pageWidth, lineHeight, "Team members: "+strconv.Itoa(len(snap.Assignments)), "", 1, "L", false, 0, "")
	if p.Description != nil && *p.Description != "" {
		doc.Ln(2)
		doc.MultiCell(pageWidth, lineHeight, tr(*p.Description), "", "L", false)
	}

	titles := make(map[string]string, len(snap.Pages))
	for i, pg := range snap.Pages {
		titles[pg.ID] = pageLabel(pg, i)
	}

	section(doc, fmt.Sprintf("Pages (%d)", len(snap.Pages)))
	if len(snap.Pages) == 0 {
		doc.CellFormat(pageWidth, lineHeight, "No pages yet.", "", 1, "L", false, 0, "")
	} else {
		header(doc, []string{"#", "Title", "Screenshot"}, []float64{15, 75, 100})
		for _, pg := range snap.Pages {
			row(doc, tr, []string{strconv.Itoa(pg.Order), titles[pg.ID], pg.ScreenshotPath}, []float64{15, 75, 100})
		}
	}

	section(doc, fmt.Sprintf("Workflows (%d)", len(snap.Workflows)))
	if len(snap.Workflows) == 0 {
		doc.CellFormat(pageWidth, lineHeight, "No workflows yet.", "", 1, "L", false, 0, "")
	} else {
		header(doc, []string{"From", "To", "Label"}, []float64{65, 65, 60})
		for _, w := range snap.Workflows {
			label := ""
			if w.Label != nil {
				label = *w.Label
			}
			row(doc, tr, []string{titleOr(titles, w.FromPageID), titleOr(titles, w.ToPageID), label}, []float64{65, 65, 60})
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func section(doc *fpdf.Fpdf, title string) {
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(pageWidth, 8, title, "B", 1, "L", false, 0, "")
	doc.Ln(1)
	doc.SetFont("Helvetica", "", 10)
}

func header(doc *fpdf.Fpdf, cols []string, widths []float64) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, c := range cols {
		doc.CellFormat(widths[i], lineHeight, c, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 10)
}

func row(doc *fpdf.Fpdf, tr func(string) string, cells []string, widths []float64) {
	for i, c := range cells {
		doc.CellFormat(widths[i], lineHeight, tr(c), "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}

func pageLabel(p *domain.Page, idx int) string {
	if p.Title != nil && *p.Title != "" {
		return *p.Title
	}
	return "Page " + strconv.Itoa(idx+1)
}

// titleOr falls back to the raw id for pages outside the snapshot.
func titleOr(titles map[string]string, id string) string {
	if t, ok := titles[id]; ok {
		return t
	}
	return id
}
