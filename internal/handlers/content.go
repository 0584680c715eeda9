// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"marketpress/internal/cache"
	"marketpress/internal/middleware"
	"marketpress/internal/models"
	"marketpress/internal/slug"
	"marketpress/internal/storage"
	"marketpress/internal/store"
)

// Content groups the handlers for the content lifecycle: catalog listing,
// creation with category linking, view-counted detail reads, owner-only
// editing, and cascading deletion. Reviews and image uploads live on the
// same group (review.go, media.go).
type Content struct {
	contentStore  *store.ContentStore
	categoryStore *store.CategoryStore
	reviewStore   *store.ReviewStore
	storageClient *storage.Client
	listCache     *cache.ListCache
}

// NewContent creates the content handler group. storageClient may be nil
// when object storage is not configured; image endpoints then answer 503.
func NewContent(contentStore *store.ContentStore, categoryStore *store.CategoryStore, reviewStore *store.ReviewStore, storageClient *storage.Client, listCache *cache.ListCache) *Content {
	return &Content{
		contentStore:  contentStore,
		categoryStore: categoryStore,
		reviewStore:   reviewStore,
		storageClient: storageClient,
		listCache:     listCache,
	}
}

// contentRequest is the JSON body for create and edit operations.
type contentRequest struct {
	Path        string  `json:"path"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	FileURL     string  `json:"file_url"`
	Category    string  `json:"category"`
}

// List returns the whole catalog. The encoded response is cached in Valkey
// and served from there until the next content mutation.
func (h *Content) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.listCache.Get(ctx); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(cached)
		return
	}

	items, err := h.contentStore.List(ctx)
	if err != nil {
		respondStoreError(w, r, err, "list content")
		return
	}
	if items == nil {
		items = []models.Content{}
	}

	body, err := json.Marshal(items)
	if err != nil {
		respondStoreError(w, r, err, "encode content list")
		return
	}
	h.listCache.Set(ctx, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

// Create persists a new content item owned by the authenticated caller and
// links it to the named category, creating the category on first use.
// Responds 201 with the created item, addressed afterward by its path.
func (h *Content) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateContent(req.Title, req.Path, req.Description, req.FileURL, req.Category, req.Price); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}

	// Normalize the caller-supplied path; derive one from the title when
	// the caller omitted it.
	path := slug.Generate(req.Path)
	if path == "" {
		path = slug.Unique(req.Title)
	}

	content, err := h.contentStore.Create(r.Context(), store.CreateParams{
		Path:         path,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		FileURL:      req.FileURL,
		CategoryName: strings.TrimSpace(req.Category),
	}, sess.UserID)
	if err != nil {
		respondStoreError(w, r, err, "create content")
		return
	}

	h.listCache.Invalidate(r.Context())
	slog.Info("content created", "path", content.Path, "creator", sess.UserID)

	respond(w, r, http.StatusCreated, content)
}

// Detail returns a single content item by path, incrementing its view
// counter. Repeated reads are intentionally side-effecting.
func (h *Content) Detail(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	content, err := h.contentStore.GetByPath(r.Context(), path)
	if err != nil {
		respondStoreError(w, r, err, "get content")
		return
	}

	respond(w, r, http.StatusOK, content)
}

// EditForm returns a content item for editing without the view-count side
// effect. Only the creator may fetch it.
func (h *Content) EditForm(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	path := chi.URLParam(r, "path")

	content, err := h.contentStore.GetForEdit(r.Context(), path, sess.UserID)
	if err != nil {
		respondStoreError(w, r, err, "get content for edit")
		return
	}

	respond(w, r, http.StatusOK, content)
}

// EditSubmit replaces the editable fields of the content at path.
// Category and creator links are never touched by an edit.
func (h *Content) EditSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	path := chi.URLParam(r, "path")

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	// Edits keep the category untouched, so only the content fields are
	// validated here.
	if msg := validateContent(req.Title, req.Path, req.Description, req.FileURL, "-", req.Price); msg != "" {
		respondError(w, r, http.StatusBadRequest, msg)
		return
	}

	newPath := slug.Generate(req.Path)
	if newPath == "" {
		newPath = path
	}

	content, err := h.contentStore.Update(r.Context(), path, store.UpdateParams{
		Path:        newPath,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		FileURL:     req.FileURL,
	}, sess.UserID)
	if err != nil {
		respondStoreError(w, r, err, "update content")
		return
	}

	h.listCache.Invalidate(r.Context())

	respond(w, r, http.StatusOK, content)
}

// Delete removes the content at path and cascades to reviews and category
// links; a category left empty is deleted with it.
func (h *Content) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	path := chi.URLParam(r, "path")

	if err := h.contentStore.Delete(r.Context(), path, sess.UserID); err != nil {
		respondStoreError(w, r, err, "delete content")
		return
	}

	h.listCache.Invalidate(r.Context())
	slog.Info("content deleted", "path", path, "requester", sess.UserID)

	respond(w, r, http.StatusOK, map[string]bool{"success": true})
}

// Categories lists all categories with their derived content counts.
func (h *Content) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := h.categoryStore.List(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "list categories")
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	respond(w, r, http.StatusOK, items)
}
