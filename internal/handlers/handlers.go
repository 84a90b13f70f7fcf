// Package handlers exposes the services over HTTP.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/middleware"
)

// currentUserID returns the authenticated caller, responding 401 when absent.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", false
	}
	return userID, true
}

// respondInternal logs an unexpected failure and answers 500 with its message.
func respondInternal(c *gin.Context, log logrus.FieldLogger, err error) {
	_ = c.Error(err)
	log.WithError(err).WithField("route", c.FullPath()).Error("unexpected error")
	apierrors.InternalError(c, err.Error())
}
