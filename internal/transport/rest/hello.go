package rest

import (
	"net/http"

	"github.com/briancappello/starter/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

// Hello handles GET /.
func Hello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello World!"})
}

// HelloAPI handles GET /api/v1/.
func HelloAPI(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello API!"})
}

// Protected handles GET /api/v1/protected for an active, verified user.
func Protected(w http.ResponseWriter, _ *http.Request, user *domain.User) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello " + user.FullName() + "!"})
}
