// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ParamTitleID is the URL parameter nested resources read the title from.
const ParamTitleID = "title_id"

// Handler serves /titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the title router. The policy applies to the title routes
// only, so nested resources can register their own groups on the result.
//
// # Endpoints
//   - GET    /            : List, filters ?category= ?genre= ?name= ?year=
//   - POST   /            : Create
//   - GET    /{title_id}  : Detail with rating
//   - PATCH  /{title_id}  : Update
//   - DELETE /{title_id}  : Delete
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(titles chi.Router) {
		titles.Use(middleware.Authorize(sec.AdminOrReadOnly))

		titles.Get("/", handler.list)
		titles.Post("/", handler.create)
		titles.Get("/{title_id}", handler.get)
		titles.Patch("/{title_id}", handler.update)
		titles.Delete("/{title_id}", handler.delete)
	})

	return router
}

type createRequest struct {
	Name        string   `json:"name"`
	Year        *int     `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

type patchRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genres      *[]string `json:"genre"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	year, err := requestutil.QueryInt(request, "year")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Category: requestutil.Query(request, "category"),
		Genre:    requestutil.Query(request, "genre"),
		Name:     requestutil.Query(request, "name"),
		Year:     year,
	}
	page := pagination.FromRequest(request)

	titles, total, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, pagination.NewMeta(page, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	title, err := handler.service.Get(request.Context(), requestutil.Param(request, ParamTitleID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), requestutil.Actor(request), CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input patchRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, ParamTitleID), Patch(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, ParamTitleID)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
