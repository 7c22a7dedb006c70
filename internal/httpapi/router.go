package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the match API and the signup/signin credential front-end
// using chi route groups: public routes stand alone, authenticated routes
// sit behind AuthMiddleware.
func NewRouter(a *API) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(requestLogMiddleware())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, map[string]string{"service": "tacticsd"}) })
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}) })

	r.Post("/signup", a.handleSignup)
	r.Post("/signin", a.handleSignin)

	r.Get("/recipes", a.handleListRecipes)
	r.Get("/recipes/{key}", a.handleGetRecipe)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(a.Tokens))

		r.Post("/initiate_game", a.handleInitiate)
		r.Post("/update", a.handleUpdate)
		r.Post("/end_game", a.handleEndGame)
		r.Post("/matches/{id}/resign", a.handleResign)

		r.Get("/profile/active-matches", a.handleActiveMatches)
		r.Get("/profile/historic-matches", a.handleHistoricMatches)
	})

	return r
}
