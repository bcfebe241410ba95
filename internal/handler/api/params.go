package api

import (
	"net/http"

	"parkshare/internal/handler/httperr"
	"parkshare/internal/handler/middleware"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoActor = errs.New("authenticated route reached without identity")

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortInvalidRequest(c, errs.Wrapf(err, "path parameter %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// actor reads the caller set by RequireAuth; a miss means the route is wired
// without it.
func actor(c *gin.Context) (shared.Actor, bool) {
	a, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoActor, "Unauthorized", nil)
	}
	return a, ok
}
