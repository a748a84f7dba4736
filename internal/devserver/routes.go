package devserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the API routes.
func NewRouter(svc *Service) *mux.Router {
	h := &handler{svc: svc}
	protect := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(svc, fn)
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthz).Methods("GET")

	r.HandleFunc("/users/signup", h.signup).Methods("POST")
	r.HandleFunc("/users/login", h.login).Methods("POST")
	r.Handle("/users/me", protect(h.me)).Methods("GET")
	r.Handle("/users/me", protect(h.updateProfile)).Methods("PUT")
	r.Handle("/users/resetpassword", protect(h.resetPassword)).Methods("POST")

	r.Handle("/sessions", protect(h.logSession)).Methods("POST")
	r.Handle("/sessions/stats", protect(h.stats)).Methods("GET")
	r.Handle("/sessions/{year:[0-9]+}/{month:[0-9]+}", protect(h.month)).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}
