package shopping

import (
	"net/http"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// Handler wires the shopping results service to HTTP.
type Handler struct {
	Svc *Service
}

// Results serves GET /shopping-results.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "shopping service not configured", nil)
		return
	}
	req, err := ParseRequest(r.URL.Query())
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	results, err := h.Svc.Results(r.Context(), req)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": results})
}
