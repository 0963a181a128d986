package cart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-grocer/internal/common"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc *Service
}

type changeRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	ProductID *int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int   `json:"quantity" validate:"required,gte=0"`
}

// Get returns the cart of the user named by the user_id query parameter.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		common.WriteError(w, r, badRequest("user_id", "user_id is required"))
		return
	}
	snap, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": NewView(snap)})
}

// Update sets the quantity of one product in the user's cart.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "cart service not configured", nil)
		return
	}
	var payload changeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			common.JSONError(w, http.StatusRequestEntityTooLarge, common.CodePayloadTooLarge, "request body too large", nil)
		case errors.Is(err, io.EOF):
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "request body is required", nil)
		default:
			common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "invalid payload", nil)
		}
		return
	}
	payload.UserID = strings.TrimSpace(payload.UserID)
	if err := common.ValidateStruct(payload); err != nil {
		common.WriteError(w, r, err)
		return
	}
	snap, err := h.Svc.ApplyChange(r.Context(), payload.UserID, *payload.ProductID, *payload.Quantity)
	if err != nil {
		common.WriteError(w, r, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": NewView(snap)})
}
