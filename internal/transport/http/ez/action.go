// Package ez registers typed JSON actions on a gin group: bind input, run the
// handler, map domain errors onto the response envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"store-rating/internal/domain"
	mdw "store-rating/internal/transport/http/middleware"
	resp "store-rating/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// Action describes one endpoint. I is the bound input, O the envelope data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Auth requires an identity set by mdw.Authenticate on the group.
	Auth  bool
	Roles []domain.Role
	// Status is the success status; 200 when zero.
	Status int
	// Msg overrides the success message.
	Msg     string
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			id, ok := mdw.IdentityFrom(c)
			if !ok {
				resp.Abort(c, resp.CodeForbidden, "Token required")
				return
			}
			if len(a.Roles) > 0 && !hasRole(id.Role, a.Roles) {
				resp.Abort(c, resp.CodeForbidden, "Access denied")
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				resp.Abort(c, resp.CodeTooLarge, "request body too large")
				return
			}
			resp.Abort(c, resp.CodeBadRequest, bindErr.Error())
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		if a.Msg != "" {
			c.JSON(status, resp.Message(a.Msg, out))
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func hasRole(r domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// StatusOf maps a domain error kind to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteError aborts with the envelope for err. Server errors are attached to
// the context for the access log and answered with the domain message only,
// or a generic one when err is not a domain error.
func WriteError(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		var de *domain.Error
		if !errors.As(err, &de) || de.Msg == "" {
			msg = ""
		} else {
			msg = de.Msg
		}
	}
	resp.Abort(c, status, msg)
}

// Identity returns the caller attached by mdw.Authenticate.
func Identity(c *gin.Context) domain.Identity {
	id, _ := mdw.IdentityFrom(c)
	return id
}
