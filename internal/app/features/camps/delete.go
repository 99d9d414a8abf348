// internal/app/features/camps/delete.go
package camps

import (
	"context"
	"errors"
	"net/http"
	"time"

	campstore "github.com/bloodlinkhq/bloodlink/internal/app/store/camps"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/httpapi"
	"github.com/bloodlinkhq/bloodlink/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type deleteCampRequest struct {
	ID string `json:"_id"`
}

type deletedCamp struct {
	ID             string    `json:"id"`
	CampName       string    `json:"campName"`
	OrganizingDate time.Time `json:"organizingDate"`
}

// HandleDeleteCamp removes a camp by the _id in the body and echoes the
// deleted camp's identity back for confirmation.
func (h *Handler) HandleDeleteCamp(w http.ResponseWriter, r *http.Request) {
	var req deleteCampRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.WriteError(w, h.Log, err)
		return
	}
	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		httpapi.WriteError(w, h.Log, httpapi.Validation("invalid camp id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	camp, err := h.Camps.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, campstore.ErrNotFound) {
			httpapi.WriteError(w, h.Log, httpapi.NotFound("camp not found"))
			return
		}
		httpapi.WriteError(w, h.Log, httpapi.Internal("deleting camp", err))
		return
	}

	h.Log.Info("camp deleted",
		zap.String("camp", camp.CampName),
		zap.Time("date", camp.OrganizingDate),
	)
	httpapi.WriteJSON(w, http.StatusOK, "Camp deleted successfully", deletedCamp{
		ID:             camp.ID.Hex(),
		CampName:       camp.CampName,
		OrganizingDate: camp.OrganizingDate,
	})
}
