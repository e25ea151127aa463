package controllers

import (
	"errors"
	"net/http"

	"shopez/middleware"
	"shopez/services"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func badBody(c *gin.Context) {
	fail(c, http.StatusBadRequest, "Invalid request body")
}

// respondError maps a service error onto its status code. Anything
// unrecognised is logged by the request logger and answered generically.
func respondError(c *gin.Context, err error) {
	var (
		verr       *services.ValidationError
		notFound   *services.NotFoundError
		terminal   *services.AlreadyTerminalError
		transition *services.InvalidTransitionError
		empty      *services.EmptyCartError
		conflict   *services.ConflictError
		unauth     *services.UnauthorizedError
		forbidden  *services.ForbiddenError
	)

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  verr.Fields,
		})
	case errors.As(err, &notFound):
		fail(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &terminal):
		fail(c, http.StatusBadRequest, terminal.Error())
	case errors.As(err, &transition):
		fail(c, http.StatusBadRequest, transition.Error())
	case errors.As(err, &empty):
		fail(c, http.StatusBadRequest, "Cart is empty")
	case errors.As(err, &conflict):
		fail(c, http.StatusConflict, conflict.Message)
	case errors.As(err, &unauth):
		fail(c, http.StatusUnauthorized, unauth.Message)
	case errors.As(err, &forbidden):
		fail(c, http.StatusForbidden, forbidden.Message)
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func currentActor(c *gin.Context) services.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

// ownerFor resolves the user a request acts on. An empty userID means the
// caller; any other value must be the caller unless the caller is an
// operator. It writes the 403 itself and reports false on refusal.
func ownerFor(c *gin.Context, userID string) (string, bool) {
	actor := currentActor(c)
	if userID == "" {
		return actor.UserID, true
	}
	if !actor.CanActFor(userID) {
		respondError(c, &services.ForbiddenError{Message: "cannot act on another user's data"})
		return "", false
	}
	return userID, true
}
