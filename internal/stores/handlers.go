package stores

import (
	"net/http"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// Handler exposes the store directory.
type Handler struct {
	Svc *Service
}

// List handles GET /api/v1/stores.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "store service not configured", nil)
		return
	}
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	rows, err := h.Svc.List(r.Context(), q)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}
