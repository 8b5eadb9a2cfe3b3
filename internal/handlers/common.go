// Package handlers contains one file per entity. GET routes render a
// form or a listing; POST routes validate, mutate inside a
// transaction (appending the audit event when required) and redirect
// 303 to the listing page.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/celian-arc/aim/internal/view"
)

// statusSeeOther: Post/Redirect/Get.
const statusSeeOther = http.StatusSeeOther

func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name+".html", data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		if _, werr := w.Write([]byte("template error: " + err.Error())); werr != nil {
			_ = werr
		}
	}
}

// pathID parses the {id} segment of the matched route pattern.
func pathID(r *http.Request, name string) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func notFound(w http.ResponseWriter) {
	http.Error(w, "Introuvable", http.StatusNotFound)
}

func serverError(w http.ResponseWriter) {
	http.Error(w, "Erreur interne", http.StatusInternalServerError)
}
