package cli

import (
	"errors"

	"github.com/dmitrijs2005/bookshelf/internal/client/auth"
	"github.com/dmitrijs2005/bookshelf/internal/client/client"
	"github.com/dmitrijs2005/bookshelf/internal/client/pipeline"
)

// describeError turns a command failure into the line shown to the user.
func describeError(err error) string {
	var serr *pipeline.ServerError
	switch {
	case errors.Is(err, errUsage):
		return "Usage" + err.Error()[len(errUsage.Error()):]
	case errors.Is(err, auth.ErrRefreshFailed):
		return "Your session has expired, please log in again"
	case errors.Is(err, client.ErrUnauthorized):
		return "Not authorized, please log in"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later"
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.As(err, &serr) && serr.Message != "":
		return "Server error: " + serr.Message
	}
	return "Error: " + err.Error()
}
