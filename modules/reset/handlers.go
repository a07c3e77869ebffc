package reset

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/modules/user"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Handler exposes the reset endpoints. Both are public.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the reset routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/forgot-password", h.forgot)
	r.Post("/reset-password", h.reset)
	return r
}

type forgotInput struct {
	Email string `json:"email"`
}

func (h *Handler) forgot(w http.ResponseWriter, r *http.Request) {
	var in forgotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	if err := h.svc.Forgot(r.Context(), in.Email); err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, map[string]string{"message": "Reset email sent, check your inbox!"})
}

type resetInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var in resetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	if err := h.svc.Reset(r.Context(), in.Token, in.Password); err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully!"})
}

func mapError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return core.BadRequest("Please fill in all required fields!")
	case errors.Is(err, user.ErrNotFound):
		return core.NotFound("No account found for that email!")
	case errors.Is(err, ErrInvalidToken):
		return core.Unauthorized("Reset link is invalid or has expired!")
	}
	return err
}
