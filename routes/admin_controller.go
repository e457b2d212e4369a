package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/avetra/committee-portal/app"
	"github.com/avetra/committee-portal/httpx"
	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/service"
)

func GetStats(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := app.Stats(r.Context())
		if err != nil {
			httpx.Error(w, "service.stats", err)
			return
		}

		render.JSON(w, r, stats)
	}
}

func ExportCSV(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := r.URL.Query().Get("filename")
		if filename == "" {
			filename = service.ExportFilename()
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

		if _, err := app.ExportCSV(r.Context(), w); err != nil {
			// headers are already out; all we can do is log
			log.Errorf("service.export_csv: %s", err)
		}
	}
}

func DeleteSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		if err := app.Remove(r.Context(), id); err != nil {
			httpx.Error(w, "service.remove", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClearSubmissions deletes every record. The destructive step is gated
// behind an explicit confirm query parameter on top of the admin secret.
func ClearSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"request.clear_all", "add ?confirm=true to delete all records")
			return
		}

		n, err := app.ClearAll(r.Context())
		if err != nil {
			httpx.Error(w, "service.clear_all", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"deleted": n,
		})
	}
}
