package handlers

import (
	"net/http"

	"github.com/celian-arc/aim/internal/services"
)

// ExportHandler serves the PDF snapshots as file downloads.
type ExportHandler struct {
	Exporter *services.Exporter
}

func NewExportHandler(e *services.Exporter) *ExportHandler { return &ExportHandler{Exporter: e} }

func servePDF(w http.ResponseWriter, filename string, write func(http.ResponseWriter) error) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := write(w); err != nil {
		// Headers are out; nothing useful left to send.
		return
	}
}

func (h *ExportHandler) Products(w http.ResponseWriter, r *http.Request) {
	servePDF(w, "produits.pdf", func(w http.ResponseWriter) error {
		return h.Exporter.Products(w)
	})
}

func (h *ExportHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	servePDF(w, "assignations.pdf", func(w http.ResponseWriter) error {
		return h.Exporter.Assignments(w)
	})
}

func (h *ExportHandler) Composites(w http.ResponseWriter, r *http.Request) {
	servePDF(w, "arcs.pdf", func(w http.ResponseWriter) error {
		return h.Exporter.Composites(w)
	})
}

func (h *ExportHandler) Archers(w http.ResponseWriter, r *http.Request) {
	servePDF(w, "archers.pdf", func(w http.ResponseWriter) error {
		return h.Exporter.Archers(w)
	})
}
