package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/celian-arc/aim/internal/models"
	"gorm.io/gorm"
)

// Exporter renders table snapshots as fixed-layout PDF documents:
// a title, one text line per row, page break when the page fills.
// No filtering or pagination; all rows in natural order.
type Exporter struct {
	DB *gorm.DB
}

func NewExporter(db *gorm.DB) *Exporter { return &Exporter{DB: db} }

// lineDoc is a minimal line-by-line page cursor over fpdf.
type lineDoc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

const (
	docTop    = 20.0
	docBottom = 277.0
	lineStep  = 7.0
	subStep   = 5.0
)

func newLineDoc(title string) *lineDoc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()
	d := &lineDoc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: docTop}
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.Text(20, d.y, d.tr(title))
	d.pdf.SetFont("Helvetica", "", 11)
	d.y += lineStep + 3
	return d
}

func (d *lineDoc) line(indent float64, text string, step float64) {
	if d.y > docBottom {
		d.pdf.AddPage()
		d.y = docTop
	}
	d.pdf.Text(20+indent, d.y, d.tr(text))
	d.y += step
}

func (d *lineDoc) output(w io.Writer) error { return d.pdf.Output(w) }

// Products exports every product with its category and state.
func (e *Exporter) Products(w io.Writer) error {
	var prods []models.Product
	if err := e.DB.Preload("Category").Find(&prods).Error; err != nil {
		return err
	}
	d := newLineDoc("Liste des produits")
	for _, p := range prods {
		d.line(0, fmt.Sprintf("%d: %s - %s - Etat: %s", p.ID, p.Brand, p.Category.Name, p.State), lineStep)
	}
	return d.output(w)
}

// Assignments exports the currently open loans.
func (e *Exporter) Assignments(w io.Writer) error {
	var assigns []models.Assignment
	if err := e.DB.Preload("Archer").Preload("Composite").
		Where("date_returned IS NULL").Find(&assigns).Error; err != nil {
		return err
	}
	d := newLineDoc("Assignations actuelles")
	for _, a := range assigns {
		d.line(0, fmt.Sprintf("%s - %s - %s",
			a.Archer.Name(), a.Composite.Name, a.DateAssigned.Format("02/01/2006")), lineStep)
	}
	return d.output(w)
}

// Composites exports every bow with its components indented below it.
func (e *Exporter) Composites(w io.Writer) error {
	var comps []models.CompositeProduct
	if err := e.DB.Preload("Components.Category").Find(&comps).Error; err != nil {
		return err
	}
	d := newLineDoc("Liste des arcs")
	for _, c := range comps {
		d.line(0, fmt.Sprintf("%s - Type: %s - Statut: %s", c.Name, c.Type, c.Status), lineStep)
		for _, p := range c.Components {
			d.line(5, "- "+p.Label(), subStep)
		}
		d.y += 2
	}
	return d.output(w)
}

// Archers exports the member list with license numbers.
func (e *Exporter) Archers(w io.Writer) error {
	var archers []models.Archer
	if err := e.DB.Order("last_name, first_name").Find(&archers).Error; err != nil {
		return err
	}
	d := newLineDoc("Liste des archers")
	for _, a := range archers {
		line := fmt.Sprintf("%s - Licence: %s", a.Name(), a.LicenseNumber)
		if a.Age != nil {
			line += fmt.Sprintf(" - %d ans", *a.Age)
		}
		d.line(0, line, lineStep)
	}
	return d.output(w)
}
