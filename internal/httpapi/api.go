// Package httpapi is the HTTP transport for the Match API: a chi router,
// bearer-token auth middleware, and handlers that translate requests into
// orchestrator.Service calls and typed engine errors into status codes.
package httpapi

import (
	"github.com/gravitas-games/tacticsd/internal/orchestrator"
)

// API holds the dependencies every handler needs.
type API struct {
	Service *orchestrator.Service
	Tokens  *TokenIssuer
}

// New builds an API.
func New(service *orchestrator.Service, tokens *TokenIssuer) *API {
	return &API{Service: service, Tokens: tokens}
}
