package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/token"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Handler exposes the profile endpoints. All routes expect the session
// guard to have run already.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the profile routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/users", h.list)
	r.Get("/user/{id}", h.get)
	r.Post("/update/{id}", h.update)
	r.Delete("/delete/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, users)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, u)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := token.SubjectFromContext(r.Context())
	if !ok {
		core.RespondError(w, core.Unauthorized("You are not authenticated!"))
		return
	}

	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	updated, err := h.svc.Update(r.Context(), callerID, chi.URLParam(r, "id"), in)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := token.SubjectFromContext(r.Context())
	if !ok {
		core.RespondError(w, core.Unauthorized("You are not authenticated!"))
		return
	}

	if err := h.svc.Delete(r.Context(), callerID, chi.URLParam(r, "id")); err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully!"})
}

func mapError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return core.BadRequest(verrs.Error())
	case errors.Is(err, ErrNotFound):
		return core.NotFound("User not found!")
	case errors.Is(err, ErrForbidden):
		return core.Forbidden("You can only manage your own account!")
	case errors.Is(err, ErrUsernameTaken):
		return core.Conflict("A user with that username already exists, try another!")
	case errors.Is(err, ErrEmailTaken):
		return core.Conflict("A user with that email already exists, try another!")
	}
	return err
}
