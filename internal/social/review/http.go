// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	paramReviewID  = "review_id"
	paramCommentID = "comment_id"
)

// Handler serves reviews and comments nested under /titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the review routes to the title router.
//
// # Endpoints
//   - GET, POST          /{title_id}/reviews
//   - GET, PATCH, DELETE /{title_id}/reviews/{review_id}
//   - GET, POST          /{title_id}/reviews/{review_id}/comments
//   - GET, PATCH, DELETE /{title_id}/reviews/{review_id}/comments/{comment_id}
func (handler *Handler) RegisterRoutes(titles chi.Router) {
	titles.Route("/{title_id}/reviews", func(reviews chi.Router) {
		reviews.Use(middleware.Authorize(sec.ReviewCommentAccess))

		reviews.Get("/", handler.listReviews)
		reviews.Post("/", handler.createReview)
		reviews.Get("/{review_id}", handler.getReview)
		reviews.Patch("/{review_id}", handler.updateReview)
		reviews.Delete("/{review_id}", handler.deleteReview)

		reviews.Get("/{review_id}/comments", handler.listComments)
		reviews.Post("/{review_id}/comments", handler.createComment)
		reviews.Get("/{review_id}/comments/{comment_id}", handler.getComment)
		reviews.Patch("/{review_id}/comments/{comment_id}", handler.updateComment)
		reviews.Delete("/{review_id}/comments/{comment_id}", handler.deleteComment)
	})
}

type reviewRequest struct {
	Text  string `json:"text"`
	Score *int   `json:"score"`
}

type reviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type commentPatchRequest struct {
	Text *string `json:"text"`
}

// # Reviews

func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	reviews, total, err := handler.service.ListReviews(request.Context(), requestutil.Param(request, title.ParamTitleID), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(page, total))
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	review, err := handler.service.GetReview(request.Context(),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	var input reviewRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		ReviewInput(input),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	var input reviewPatchRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		ReviewPatch(input),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.DeleteReview(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comments

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		page,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(page, total))
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	comment, err := handler.service.GetComment(request.Context(),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		requestutil.Param(request, paramCommentID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	var input commentRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		CommentInput(input),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	var input commentPatchRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		requestutil.Param(request, paramCommentID),
		CommentPatch(input),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.DeleteComment(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, title.ParamTitleID),
		requestutil.Param(request, paramReviewID),
		requestutil.Param(request, paramCommentID),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
