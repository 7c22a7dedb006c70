package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

type recipesResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

// handleListRecipes implements `GET /recipes`.
func (a *API) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := recipe.Filter{
		Kind:        recipe.Kind(q.Get("kind")),
		WeaponClass: recipe.WeaponClass(q.Get("weaponClass")),
	}
	if v := q.Get("minGrade"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MinGrade = n
		}
	}
	if v := q.Get("maxGrade"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.MaxGrade = n
		}
	}
	if v := q.Get("enabled"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Enabled = &b
		}
	}
	writeJSON(w, http.StatusOK, recipesResponse{Recipes: a.Service.Catalog.List(f)})
}

type recipeResponse struct {
	Recipe recipe.Recipe `json:"recipe"`
}

// handleGetRecipe implements `GET /recipes/:key`.
func (a *API) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	rec, ok := a.Service.Catalog.Get(key)
	if !ok {
		writeError(w, engine.NotFound("recipe %q not found", key))
		return
	}
	writeJSON(w, http.StatusOK, recipeResponse{Recipe: rec})
}
