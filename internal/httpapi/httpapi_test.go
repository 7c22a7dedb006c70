package httpapi

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gravitas-games/tacticsd/internal/orchestrator"
	"github.com/gravitas-games/tacticsd/internal/recipe"
	"github.com/gravitas-games/tacticsd/internal/store/memstore"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	svc := orchestrator.New(
		memstore.NewMatchStore(),
		memstore.NewHistoryStore(),
		memstore.NewPolicyStore(),
		memstore.NewUserStore(),
		recipe.NewCatalog(recipe.DefaultRecipes()),
	)
	svc.Explorer = rand.New(rand.NewSource(7))
	tokens, err := NewTokenIssuer("tacticsd-test", time.Hour)
	if err != nil {
		t.Fatalf("failed to build token issuer: %v", err)
	}
	return New(svc, tokens)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func signup(t *testing.T, h http.Handler, handle string) tokenResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/signup", signupRequest{Handle: handle, Password: "hunter2"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed: status %d body %s", rec.Code, rec.Body.String())
	}
	var tr tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tr); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	return tr
}

func TestHealthAndRootArePublic(t *testing.T) {
	r := NewRouter(newTestAPI(t))
	for _, path := range []string{"/", "/health"} {
		rec := doJSON(t, r, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestInitiateGameRequiresAuth(t *testing.T) {
	r := NewRouter(newTestAPI(t))
	rec := doJSON(t, r, http.MethodPost, "/initiate_game", initiateRequest{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestSignupSigninAndInitiateFlow(t *testing.T) {
	r := NewRouter(newTestAPI(t))

	tok := signup(t, r, "alice")
	if tok.Token == "" || tok.UserID == "" {
		t.Fatalf("expected non-empty token/userId, got %+v", tok)
	}

	rec := doJSON(t, r, http.MethodPost, "/signup", signupRequest{Handle: "alice", Password: "x"}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate handle, got %d", rec.Code)
	}

	signinRec := doJSON(t, r, http.MethodPost, "/signin", signupRequest{Handle: "alice", Password: "hunter2"}, "")
	if signinRec.Code != http.StatusOK {
		t.Fatalf("expected signin to succeed, got %d: %s", signinRec.Code, signinRec.Body.String())
	}

	badSignin := doJSON(t, r, http.MethodPost, "/signin", signupRequest{Handle: "alice", Password: "wrong"}, "")
	if badSignin.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on wrong password, got %d", badSignin.Code)
	}

	initRec := doJSON(t, r, http.MethodPost, "/initiate_game", initiateRequest{Seed: "http-test", Width: 16, Height: 16, ELO: 1200}, tok.Token)
	if initRec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on initiate, got %d: %s", initRec.Code, initRec.Body.String())
	}
	var initResp initiateResponse
	if err := json.Unmarshal(initRec.Body.Bytes(), &initResp); err != nil {
		t.Fatalf("decode initiate response: %v", err)
	}
	if initResp.MatchID == "" || initResp.Snapshot == nil {
		t.Fatalf("expected matchId and snapshot, got %+v", initResp)
	}

	activeRec := doJSON(t, r, http.MethodGet, "/profile/active-matches", nil, tok.Token)
	if activeRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on active-matches, got %d", activeRec.Code)
	}
	var active activeMatchesResponse
	if err := json.Unmarshal(activeRec.Body.Bytes(), &active); err != nil {
		t.Fatalf("decode active-matches response: %v", err)
	}
	if active.Total != 1 {
		t.Fatalf("expected 1 active match, got %d", active.Total)
	}
}

func TestResignByNonParticipantIsForbidden(t *testing.T) {
	r := NewRouter(newTestAPI(t))

	owner := signup(t, r, "owner")
	intruder := signup(t, r, "intruder")

	initRec := doJSON(t, r, http.MethodPost, "/initiate_game", initiateRequest{Seed: "resign-403", Width: 16, Height: 16, ELO: 1200}, owner.Token)
	var initResp initiateResponse
	_ = json.Unmarshal(initRec.Body.Bytes(), &initResp)

	rec := doJSON(t, r, http.MethodPost, "/matches/"+initResp.MatchID+"/resign", resignRequest{}, intruder.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-participant resign, got %d: %s", rec.Code, rec.Body.String())
	}

	ownRec := doJSON(t, r, http.MethodPost, "/matches/"+initResp.MatchID+"/resign", resignRequest{}, owner.Token)
	if ownRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner resign, got %d: %s", ownRec.Code, ownRec.Body.String())
	}
}

func TestRecipesListAndGetArePublic(t *testing.T) {
	r := NewRouter(newTestAPI(t))

	listRec := doJSON(t, r, http.MethodGet, "/recipes?kind=weapon", nil, "")
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing recipes, got %d", listRec.Code)
	}
	var list recipesResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode recipes response: %v", err)
	}
	if len(list.Recipes) == 0 {
		t.Fatal("expected at least one weapon recipe")
	}

	getRec := doJSON(t, r, http.MethodGet, "/recipes/does-not-exist", nil, "")
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown recipe key, got %d", getRec.Code)
	}
}
