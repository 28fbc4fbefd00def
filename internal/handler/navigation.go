package handler

import (
	"net/http"

	"github.com/google/uuid"

	"zapway/internal/middleware"
	"zapway/internal/navigation"
)

// Navigation resolves ?page= to the page the caller may see. It runs behind
// optional authentication.
func Navigation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	loggedIn := userID != uuid.Nil
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requested": r.URL.Query().Get("page"),
		"page":      navigation.Resolve(r.URL.Query().Get("page"), loggedIn),
		"logged_in": loggedIn,
		"pages":     navigation.Pages,
	})
}
