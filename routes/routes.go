package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avetra/committee-portal/app"
	"github.com/avetra/committee-portal/metrics"
	"github.com/avetra/committee-portal/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Method(http.MethodGet, "/metrics", metrics.Handler())
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/submissions", SubmitRegistration(app))
	api.Get("/submissions", ListSubmissions(app))
	api.Get(`/submissions/{sid:^[A-Z0-9]+$}`, GetSubmission(app))
	api.Get(`/submissions/{sid:^[A-Z0-9]+$}/photo`, GetSubmissionPhoto(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.AdminAuth(app.Gate))

		r.Get("/stats", GetStats(app))
		r.Get("/export", ExportCSV(app))
		r.Delete(`/submissions/{id:^\d+$}`, DeleteSubmission(app))
		r.Delete("/submissions", ClearSubmissions(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
