package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketpress/internal/middleware"
	"marketpress/internal/models"
)

// reviewRequest is the JSON body for posting a review.
type reviewRequest struct {
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// Reviews lists all reviews of the content at path, newest first.
// The lookup does not count as a detail view.
func (h *Content) Reviews(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	content, err := h.contentStore.FindByPath(r.Context(), path)
	if err != nil {
		respondStoreError(w, r, err, "find content")
		return
	}

	items, err := h.reviewStore.ListByContent(r.Context(), content.ID)
	if err != nil {
		respondStoreError(w, r, err, "list reviews")
		return
	}
	if items == nil {
		items = []models.Review{}
	}

	respond(w, r, http.StatusOK, items)
}

// ReviewCreate adds a review by the authenticated caller to the content at
// path. Responds 201 with the created review.
func (h *Content) ReviewCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	path := chi.URLParam(r, "path")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateReview(req.Rating, req.Body); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}

	content, err := h.contentStore.FindByPath(r.Context(), path)
	if err != nil {
		respondStoreError(w, r, err, "find content")
		return
	}

	review, err := h.reviewStore.Create(r.Context(), content.ID, sess.UserID, req.Rating, req.Body)
	if err != nil {
		respondStoreError(w, r, err, "create review")
		return
	}
	review.AuthorName = sess.DisplayName

	respond(w, r, http.StatusCreated, review)
}
