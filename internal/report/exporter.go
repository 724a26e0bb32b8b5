// Package report renders exam slips and score reports as PDF documents and
// exports admin result listings as XLSX workbooks.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"
)

const (
	schoolName = "Goodly Heritage Comprehensive High School"
	examVenue  = "School Hall, Goodly Heritage Comprehensive High School, Lagos"

	fontRegular = "portal"
	fontBold    = "portal-bold"

	pageMargin = 40.0
	lineHeight = 18.0
)

// Exporter produces PDF and XLSX documents. PDF text needs TTF fonts; they
// are loaded per document because gopdf binds fonts to a document instance.
type Exporter struct {
	fontDir string
	log     zerolog.Logger
}

// NewExporter creates an exporter that loads fonts from fontDir
// (regular.ttf and bold.ttf).
func NewExporter(fontDir string, log zerolog.Logger) *Exporter {
	return &Exporter{
		fontDir: fontDir,
		log:     log.With().Str("component", "report_exporter").Logger(),
	}
}

// newDocument starts an A4 portrait document with both fonts registered.
func (e *Exporter) newDocument() (*gopdf.GoPdf, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	regular := filepath.Join(e.fontDir, "regular.ttf")
	if err := pdf.AddTTFFont(fontRegular, regular); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}

	bold := filepath.Join(e.fontDir, "bold.ttf")
	if _, err := os.Stat(bold); err != nil {
		// A missing bold face degrades to the regular face.
		bold = regular
	}
	if err := pdf.AddTTFFont(fontBold, bold); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	return pdf, nil
}

// heading writes a centered bold line at the given size.
func heading(pdf *gopdf.GoPdf, text string, size float64) error {
	if err := pdf.SetFont(fontBold, "", size); err != nil {
		return err
	}
	width, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	pageWidth := gopdf.PageSizeA4.W
	pdf.SetX((pageWidth - width) / 2)
	if err := pdf.Cell(nil, text); err != nil {
		return err
	}
	pdf.SetXY(pageMargin, pdf.GetY()+lineHeight*1.5)
	return nil
}

// labeled writes a "Label: value" row.
func labeled(pdf *gopdf.GoPdf, label, value string) error {
	pdf.SetX(pageMargin)
	if err := pdf.SetFont(fontBold, "", 11); err != nil {
		return err
	}
	if err := pdf.Cell(nil, label+": "); err != nil {
		return err
	}
	if err := pdf.SetFont(fontRegular, "", 11); err != nil {
		return err
	}
	if err := pdf.Cell(nil, value); err != nil {
		return err
	}
	pdf.SetXY(pageMargin, pdf.GetY()+lineHeight)
	return nil
}

// rule draws a horizontal divider at the current Y.
func rule(pdf *gopdf.GoPdf) {
	y := pdf.GetY()
	pdf.SetLineWidth(0.5)
	pdf.Line(pageMargin, y, gopdf.PageSizeA4.W-pageMargin, y)
	pdf.SetXY(pageMargin, y+lineHeight*0.75)
}
