package handler

import (
	"net/http"

	models "cloudstorage/internal/domain/models/storage"
	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// FolderHandler handles folder tree HTTP requests
type FolderHandler struct {
	treeService      svc.TreeService
	dashboardService svc.DashboardService
	logger           *logger.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(treeService svc.TreeService, dashboardService svc.DashboardService, log *logger.Logger) *FolderHandler {
	return &FolderHandler{
		treeService:      treeService,
		dashboardService: dashboardService,
		logger:           log,
	}
}

// CreateTree persists a nested folder description
// POST /folder/create?folder_id=<parent>
// Returns 201 with the owner's Root folders
func (h *FolderHandler) CreateTree(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	parentID, err := queryFolderID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var desc models.TreeDescription
	if err := parseBody(w, r, &desc); err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := h.treeService.CreateTree(r.Context(), ownerID, &desc, parentID); err != nil {
		handleError(w, r, err)
		return
	}

	roots, err := h.treeService.ListRootFolders(r.Context(), ownerID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, roots)
}

// ListRootFolders returns the owner's top-level folders
// GET /folder/folders
func (h *FolderHandler) ListRootFolders(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	roots, err := h.treeService.ListRootFolders(r.Context(), ownerID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, roots)
}

// GetFolderDetails returns a folder with its merged listing
// GET /folder/details?folder_id=<id>
func (h *FolderHandler) GetFolderDetails(w http.ResponseWriter, r *http.Request) {
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
	if folderID == nil {
		httputil.RespondError(w, http.StatusBadRequest, "folder_id is required")
		return
	}

	details, err := h.dashboardService.FolderDetails(r.Context(), ownerID, *folderID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, details)
}

// DeleteFolders cascade-deletes folder subtrees
// DELETE /folder/delete?id=<id>&id=<id>
// Returns the remaining Root folders
func (h *FolderHandler) DeleteFolders(w http.ResponseWriter, r *http.Request) {
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

	roots, err := h.treeService.DeleteSubtree(r.Context(), ownerID, ids)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, roots)
}
