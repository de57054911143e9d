package http

import (
	"net/http"
	"strings"

	"github.com/sevenoy/GeminiMeds/internal/logger"
	"github.com/sevenoy/GeminiMeds/internal/utils"
)

// auth enforces bearer authentication and stores the token subject in the
// request context as the owner id. Requests without a header, with a
// malformed header or with a token rejected by the AuthService get 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithOwnerID(ctx, token.OwnerID)))
	})
}

const bearerScheme = "Bearer"

// getTokenFromAuthHeader extracts the token of an "Authorization: Bearer
// <token>" header value. The scheme is case-insensitive.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}
	if !strings.EqualFold(parts[0], bearerScheme) {
		return "", ErrUnsupportedAuthScheme
	}

	return tokenString, nil
}

// ownerFromRequest returns the owner stored by auth. A missing owner means
// the route was registered outside the auth group.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := utils.GetOwnerIDFromContext(r.Context())
	if !ok {
		logger.FromRequest(r).Error().Msg("no owner id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	}
	return ownerID, ok
}
