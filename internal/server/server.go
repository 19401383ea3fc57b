// Package server exposes editing sessions over HTTP.
package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rm-hull/photo-editor/internal"
	"github.com/rm-hull/photo-editor/internal/crop"
	"github.com/rm-hull/photo-editor/internal/editor"
	"github.com/rm-hull/photo-editor/internal/models/api"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

var errBadRequest = errors.New("bad request")

type Server struct {
	store     *editor.Store
	fetcher   internal.ImageFetcher
	maxUpload int64
}

func New(store *editor.Store, fetcher internal.ImageFetcher, maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = internal.DefaultMaxImageBytes
	}
	return &Server{store: store, fetcher: fetcher, maxUpload: maxUpload}
}

// Register mounts the session routes under /v1/sessions.
func (s *Server) Register(r gin.IRouter) {
	sessions := r.Group("/v1/sessions")
	sessions.POST("", s.create)

	one := sessions.Group("/:id")
	one.GET("", s.get)
	one.DELETE("", s.delete)
	one.POST("/filters/:op", s.applyFilter)
	one.POST("/preview/:op", s.preview)
	one.POST("/recipe", s.applyRecipe)
	one.POST("/undo", s.undo)
	one.POST("/redo", s.redo)
	one.POST("/crop/start", s.startCrop)
	one.POST("/crop/rect", s.setCropRect)
	one.POST("/crop/pointer", s.pointer)
	one.POST("/crop/apply", s.applyCrop)
	one.POST("/crop/cancel", s.cancelCrop)
	one.POST("/text", s.stampText)
	one.GET("/image", s.image)
	one.GET("/export", s.export)
}

func sessionID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, editor.ErrSessionNotFound
	}
	return id, nil
}

// with runs fn against the session named in the path, answering with an
// error response when either lookup or fn fails.
func (s *Server) with(c *gin.Context, fn func(id uuid.UUID, sess *editor.Session) error) bool {
	id, err := sessionID(c)
	if err == nil {
		err = s.store.With(id, func(sess *editor.Session) error {
			return fn(id, sess)
		})
	}
	if err != nil {
		fail(c, err)
		return false
	}
	return true
}

func summary(id uuid.UUID, sess *editor.Session) api.Session {
	return api.Session{ID: id.String(), Info: sess.Info()}
}

// changed runs an edit and replies with whether it took effect.
func (s *Server) changed(c *gin.Context, edit func(*editor.Session) (bool, error)) {
	var resp api.ChangeResponse
	ok := s.with(c, func(id uuid.UUID, sess *editor.Session) error {
		changed, err := edit(sess)
		if err != nil {
			return err
		}
		resp = api.ChangeResponse{Changed: changed, Session: summary(id, sess)}
		return nil
	})
	if ok {
		c.JSON(http.StatusOK, resp)
	}
}

func status(err error) int {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, pixel.ErrPrecondition),
		errors.Is(err, pixel.ErrInvalidDimension),
		errors.Is(err, crop.ErrNotActive):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	code := status(err)
	if code == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(code, api.ErrorResponse{Error: err.Error()})
}
