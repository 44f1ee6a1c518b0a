package http

import (
	"net/http"

	"github.com/robertarktes/holidaze-gateway/internal/domain"
	"github.com/robertarktes/holidaze-gateway/internal/session"
)

type sessionView struct {
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Avatar       *domain.Media `json:"avatar,omitempty"`
	VenueManager bool          `json:"venueManager"`
	HasAPIKey    bool          `json:"hasApiKey"`
}

func viewOf(s *session.Session) sessionView {
	return sessionView{
		Name:         s.Name,
		Email:        s.Email,
		Avatar:       s.Avatar,
		VenueManager: s.VenueManager,
		HasAPIKey:    s.APIKey != "",
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var form domain.RegisterForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	profile, err := h.sessions.Register(r.Context(), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, profile)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var form domain.LoginForm
	if err := decodeJSON(w, r, &form); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.sessions.SignIn(r.Context(), form)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeData(w, http.StatusOK, viewOf(s))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	if err := h.sessions.SignOut(r.Context(), s.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CurrentSession(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	writeData(w, http.StatusOK, viewOf(s))
}
