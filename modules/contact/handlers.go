package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Handler exposes the public contact endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the contact routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/send-form", h.sendForm)
	return r
}

func (h *Handler) sendForm(w http.ResponseWriter, r *http.Request) {
	var f Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	if err := h.svc.Relay(r.Context(), f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			core.RespondError(w, core.BadRequest("Please fill in all required fields!"))
			return
		}
		core.RespondError(w, err)
		return
	}

	core.JSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully!"})
}
