package routes

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/avetra/committee-portal/app"
	"github.com/avetra/committee-portal/httpx"
	"github.com/avetra/committee-portal/log"
	"github.com/avetra/committee-portal/model"
	"github.com/avetra/committee-portal/service"
	"github.com/avetra/committee-portal/store"
)

func SubmitRegistration(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// a bit of headroom over the photo bound for the text fields
		err := r.ParseMultipartForm(int64(model.MaxPhotoBytes) + 1<<20)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		in := service.RegisterInput{
			Name:             r.FormValue("name"),
			Committee:        r.FormValue("committee"),
			SocialMediaLinks: r.FormValue("social_media_links"),
			Email:            r.FormValue("email"),
			Phone:            r.FormValue("phone"),
		}

		file, header, err := r.FormFile("photo")
		switch {
		case err == nil:
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, int64(model.MaxPhotoBytes)+1))
			if err != nil {
				httpx.LogInternalError(w, "request.read_photo", err)
				return
			}
			in.PhotoFilename = header.Filename
			in.PhotoData = data
		case errors.Is(err, http.ErrMissingFile):
			// photo is optional
		default:
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_photo")
			return
		}

		sub, err := app.Register(r.Context(), in)
		if err != nil {
			httpx.Error(w, "service.register", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id":            sub.ID,
			"submission_id": sub.SubmissionID,
		})
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := store.Filter{
			Committee:  r.URL.Query().Get("committee"),
			NameSearch: r.URL.Query().Get("name"),
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.limit")
				return
			}
			f.Limit = limit
		}

		subs, err := app.List(r.Context(), f)
		if err != nil {
			httpx.Error(w, "service.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"total":       len(subs),
			"submissions": subs,
		})
	}
}

func GetSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")

		sub, err := app.GetBySubmissionID(r.Context(), sid)
		if err != nil {
			httpx.Error(w, "service.get_submission", err)
			return
		}

		render.JSON(w, r, sub)
	}
}

func GetSubmissionPhoto(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := chi.URLParam(r, "sid")

		sub, err := app.GetBySubmissionID(r.Context(), sid)
		if err != nil {
			httpx.Error(w, "service.get_photo", err)
			return
		}
		if !sub.HasPhoto() {
			httpx.LogNotFound(w, "get_photo", sid)
			return
		}

		w.Header().Set("Content-Type", http.DetectContentType(sub.PhotoData))
		w.Write(sub.PhotoData)
	}
}
