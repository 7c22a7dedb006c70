package httpapi

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/gravitas-games/tacticsd/internal/engine"
)

type signupRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Handle string `json:"handle"`
}

// handleSignup registers a new handle with elo=1200 and returns a bearer
// token for it.
func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, engine.Validation("malformed request body: %v", err))
		return
	}
	if req.Handle == "" || req.Password == "" {
		writeError(w, engine.Validation("handle and password are required"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, engine.Storage(err, "hashing password"))
		return
	}

	acc, err := a.Service.Users.CreateAccount(r.Context(), req.Handle, string(hash))
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := a.Tokens.Issue(acc.UserID, acc.Handle)
	if err != nil {
		writeError(w, engine.Storage(err, "issuing token"))
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, UserID: acc.UserID, Handle: acc.Handle})
}

// handleSignin implements `POST /signin`: validates credentials and
// returns a bearer token.
func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, engine.Validation("malformed request body: %v", err))
		return
	}

	acc, err := a.Service.Users.AccountByHandle(r.Context(), req.Handle)
	if err != nil {
		writeError(w, engine.Auth("invalid handle or password"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, engine.Auth("invalid handle or password"))
		return
	}

	token, err := a.Tokens.Issue(acc.UserID, acc.Handle)
	if err != nil {
		writeError(w, engine.Storage(err, "issuing token"))
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, UserID: acc.UserID, Handle: acc.Handle})
}
