package media

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"famshare/internal/common"
	"famshare/internal/storage"
)

// Handler streams media blobs out of whichever storage backend is
// configured.
type Handler struct {
	blobs storage.BlobStorage
}

func NewHandler(blobs storage.BlobStorage) *Handler {
	return &Handler{blobs: blobs}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/media/{fileId}", h.serveFile).Methods("GET")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, mediaFile, err := h.blobs.Open(r.Context(), fileID)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	contentType := mediaFile.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if mediaFile.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", mediaFile.Size))
	}
	w.Header().Set("Cache-Control", "private, max-age=86400")

	if _, err := io.Copy(w, reader); err != nil {
		common.Logger.Warn("error streaming file",
			zap.String("file_id", fileID), zap.Error(err))
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
