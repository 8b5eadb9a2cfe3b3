package handlers

import (
	"net/http"

	"github.com/celian-arc/aim/internal/services"
)

// maxImportSize caps the uploaded CSV at 5 MiB.
const maxImportSize = 5 << 20

type ImportHandler struct {
	Importer *services.Importer
}

func NewImportHandler(im *services.Importer) *ImportHandler { return &ImportHandler{Importer: im} }

// Archers renders the upload form (GET) or runs the CSV import (POST)
// and re-renders the form with the imported count and per-row errors.
func (h *ImportHandler) Archers(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		render(w, r, "import_archers", nil)
		return
	}
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "import_archers", map[string]any{"Error": "fichier invalide"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "import_archers", map[string]any{"Error": "aucun fichier fourni"})
		return
	}
	defer file.Close()

	result, err := h.Importer.Import(file)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render(w, r, "import_archers", map[string]any{"Error": err.Error()})
		return
	}
	render(w, r, "import_archers", map[string]any{
		"Imported": result.Imported,
		"Errors":   result.Errors,
		"Done":     true,
	})
}
