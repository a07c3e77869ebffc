package tasks

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/pkg/token"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Handler exposes the task board endpoints. All routes sit behind the
// session guard.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Router mounts the task routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/create", h.create)
	r.Get("/find", h.list)
	r.Post("/update/{id}", h.update)
	r.Post("/update-bulk", h.updateBulk)
	r.Delete("/delete/{id}", h.delete)
	r.Delete("/delete/status/{status}", h.deleteByStatus)
	return r
}

func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := token.SubjectFromContext(r.Context())
	if !ok {
		core.RespondError(w, core.Unauthorized("You are not authenticated!"))
	}
	return id, ok
}

type createInput struct {
	Description string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := subject(w, r)
	if !ok {
		return
	}

	var in createInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	t, err := h.svc.Create(r.Context(), ownerID, in.Description)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.JSON(w, http.StatusCreated, map[string]any{
		"message": "Task saved successfully!",
		"task":    t,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := subject(w, r)
	if !ok {
		return
	}

	board, err := h.svc.ListAll(r.Context(), ownerID)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, board)
}

type updateInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Order       *int    `json:"order"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if _, ok := subject(w, r); !ok {
		return
	}

	var in updateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	t, err := h.svc.UpdateOne(r.Context(), chi.URLParam(r, "id"), Patch{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Order:       in.Order,
	})
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.JSON(w, http.StatusOK, map[string]any{
		"message":     "Update complete",
		"taskUpdated": t,
	})
}

type bulkInput struct {
	Tasks []BulkItem `json:"tasks"`
}

func (h *Handler) updateBulk(w http.ResponseWriter, r *http.Request) {
	if _, ok := subject(w, r); !ok {
		return
	}

	var in bulkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	applied, err := h.svc.UpdateBulk(r.Context(), in.Tasks)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.JSON(w, http.StatusOK, map[string]any{
		"message":      "Tasks updated successfully!",
		"appliedCount": applied,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := subject(w, r); !ok {
		return
	}

	if err := h.svc.DeleteOne(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully!"})
}

func (h *Handler) deleteByStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := subject(w, r)
	if !ok {
		return
	}

	status := chi.URLParam(r, "status")
	removed, err := h.svc.DeleteByStatus(r.Context(), ownerID, status)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	core.JSON(w, http.StatusOK, map[string]any{
		"message":      "All tasks with status '" + status + "' were deleted!",
		"deletedCount": removed,
	})
}

func mapError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		if verrs.Has("status") {
			return core.BadRequest("Invalid status!")
		}
		return core.BadRequest("Please fill in all required fields!")
	case errors.Is(err, ErrNotFound):
		return core.NotFound("Task not found!")
	}
	return err
}
