package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfschwingel/coppers/core"
	"github.com/gfschwingel/coppers/modules/user"
	"github.com/gfschwingel/coppers/pkg/cookie"
	"github.com/gfschwingel/coppers/pkg/validator"
)

// Handler exposes the signup/signin/signout endpoints.
type Handler struct {
	svc     *Service
	cookies *cookie.Manager
}

func NewHandler(svc *Service, cookies *cookie.Manager) *Handler {
	return &Handler{svc: svc, cookies: cookies}
}

// Router mounts the authentication routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/signin", h.signin)
	r.Get("/signout", h.signout)
	return r
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	if err := h.svc.Signup(r.Context(), in); err != nil {
		core.RespondError(w, mapError(err))
		return
	}
	core.JSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

type signinInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var in signinInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		core.RespondError(w, core.BadRequest("Invalid request body!"))
		return
	}

	u, signed, expiresAt, err := h.svc.Signin(r.Context(), in.Email, in.Password)
	if err != nil {
		core.RespondError(w, mapError(err))
		return
	}

	h.cookies.Set(w, CookieName, signed, expiresAt)
	core.JSON(w, http.StatusOK, u)
}

func (h *Handler) signout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w, CookieName)
	core.JSON(w, http.StatusOK, map[string]string{"message": "Signed out successfully!"})
}

func mapError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return core.BadRequest("Please fill in all required fields!")
	case errors.Is(err, user.ErrUsernameTaken):
		return core.Conflict("A user with that username already exists, try another!")
	case errors.Is(err, user.ErrEmailTaken):
		return core.Conflict("A user with that email already exists, try another!")
	case errors.Is(err, user.ErrNotFound):
		return core.NotFound("User or password incorrect")
	case errors.Is(err, ErrInvalidCredentials):
		return core.Unauthorized("User or password incorrect")
	}
	return err
}
