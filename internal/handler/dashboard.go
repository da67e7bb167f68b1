package handler

import (
	"net/http"

	svc "cloudstorage/internal/domain/services/storage"
	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// DashboardHandler serves the merged file and folder listing
type DashboardHandler struct {
	dashboardService svc.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService svc.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           log,
	}
}

// GetDashboard lists the children of a folder, or the top level when folder_id is absent or unknown
// GET /dashboard?folder_id=<id>
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.dashboardService.Dashboard(r.Context(), ownerID, folderID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, items)
}
