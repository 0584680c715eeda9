package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// maxUploadFiles is the most images accepted in one upload call.
	maxUploadFiles = 5

	// maxUploadSize is the maximum allowed size per file (10 MB).
	maxUploadSize = 10 << 20
)

// allowedImageTypes defines MIME types accepted for upload.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// uploadResponse mirrors the shape clients expect from the image endpoint.
type uploadResponse struct {
	Uploaded bool     `json:"uploaded"`
	URLs     []string `json:"urls"`
}

// ImageUpload stores up to five images in object storage and returns their
// public URLs. Fails the whole request on the first upstream error.
func (h *Content) ImageUpload(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFiles*maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	files := r.MultipartForm.File["upload"]
	if len(files) == 0 {
		respondError(w, r, http.StatusBadRequest, "no files provided")
		return
	}
	if len(files) > maxUploadFiles {
		respondError(w, r, http.StatusBadRequest, "too many files (max 5)")
		return
	}

	ctx := r.Context()
	now := time.Now()
	var urls []string
	for _, header := range files {
		if header.Size > maxUploadSize {
			respondError(w, r, http.StatusRequestEntityTooLarge, "file too large (max 10 MB)")
			return
		}

		file, err := header.Open()
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "unreadable file")
			return
		}

		// Detect content type by sniffing the first 512 bytes.
		sniffBuf := make([]byte, 512)
		n, err := file.Read(sniffBuf)
		if err != nil && err != io.EOF {
			file.Close()
			respondError(w, r, http.StatusBadRequest, "unreadable file")
			return
		}
		contentType := http.DetectContentType(sniffBuf[:n])
		if !allowedImageTypes[contentType] {
			file.Close()
			respondError(w, r, http.StatusBadRequest, fmt.Sprintf("file type %q is not allowed", contentType))
			return
		}

		// Seek back to start after sniffing.
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			respondError(w, r, http.StatusInternalServerError, "failed to process file")
			return
		}

		ext := filepath.Ext(header.Filename)
		key := fmt.Sprintf("content/%d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)

		url, err := h.storageClient.Upload(ctx, key, contentType, file, header.Size)
		file.Close()
		if err != nil {
			slog.Error("image upload failed", "error", err, "key", key)
			respond(w, r, http.StatusBadGateway, uploadResponse{Uploaded: false})
			return
		}
		urls = append(urls, url)
	}

	respond(w, r, http.StatusOK, uploadResponse{Uploaded: true, URLs: urls})
}

// deleteImageRequest is the JSON body for the image deletion endpoint.
type deleteImageRequest struct {
	URL string `json:"url"`
}

// ImageDelete removes one stored image identified by its public URL.
func (h *Content) ImageDelete(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		respondError(w, r, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	var req deleteImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	key, ok := h.storageClient.ExtractKey(req.URL)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "url does not belong to this storage")
		return
	}

	if err := h.storageClient.Delete(r.Context(), key); err != nil {
		slog.Error("image delete failed", "error", err, "key", key)
		respond(w, r, http.StatusBadGateway, map[string]bool{"deleted": false})
		return
	}

	respond(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
