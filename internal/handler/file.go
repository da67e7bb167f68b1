package handler

import (
	"net/http"
	"strings"

	models "cloudstorage/internal/domain/models/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService svc.FileService
	logger      *logger.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService svc.FileService, log *logger.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      log,
	}
}

// ListFiles returns the owner's files
// GET /api/files?file_type=<t>&file_type=<u>
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var fileTypes []string
	for _, value := range r.URL.Query()["file_type"] {
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				fileTypes = append(fileTypes, t)
			}
		}
	}

	files, err := h.fileService.ListFiles(r.Context(), ownerID, fileTypes)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

// UploadFile records file metadata, optionally inside a folder
// POST /api/upload?folder_id=<id>
// Returns 201 with all of the owner's files
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	folderID, err := queryFolderID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var desc models.FileDescription
	if err := parseBody(w, r, &desc); err != nil {
		handleError(w, r, err)
		return
	}

	file, err := h.fileService.UploadFile(r.Context(), ownerID, &desc, folderID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromRequest(r).Debug().
		Str("file_id", file.ID.String()).
		Str("name", file.Name).
		Msg("file uploaded")

	files, err := h.fileService.ListFiles(r.Context(), ownerID, nil)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, files)
}

// DeleteFiles removes files and unlinks them from their folders
// DELETE /api/delete?id=<id>&id=<id>
func (h *FileHandler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	ids, err := queryIDs(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := h.fileService.DeleteFiles(r.Context(), ownerID, ids); err != nil {
		handleError(w, r, err)
		return
	}

	files, err := h.fileService.ListFiles(r.Context(), ownerID, nil)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}
