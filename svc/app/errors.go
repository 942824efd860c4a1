package app

import (
	"net/http"

	"github.com/dmitrymomot/soda/core"
)

var (
	ErrAppNotFound         = core.NotFound("app not found")
	ErrRedirectURLNotFound = core.NotFound("app redirect url not found")
	ErrAppNotBelongToUser  = core.NewHTTPError(http.StatusConflict, "app_not_belong_user", "app doesnt belong to the user")
)
