package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rm-hull/photo-editor/internal"
	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/crop"
	"github.com/rm-hull/photo-editor/internal/editor"
	"github.com/rm-hull/photo-editor/internal/filter"
	"github.com/rm-hull/photo-editor/internal/models/api"
	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/rm-hull/photo-editor/internal/recipe"
)

// bind decodes an optional JSON body into v; an empty body leaves v as is.
func bind(c *gin.Context, v any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (s *Server) create(c *gin.Context) {
	buf, err := s.load(c)
	if err != nil {
		fail(c, err)
		return
	}

	id, err := s.store.Create(buf, editor.WithSurface(editor.NewMemorySurface()))
	if err != nil {
		fail(c, err)
		return
	}

	var resp api.Session
	err = s.store.With(id, func(sess *editor.Session) error {
		resp = summary(id, sess)
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// load reads the image from a multipart "file" field, a JSON url, or the raw
// request body.
func (s *Server) load(c *gin.Context) (*pixel.Buffer, error) {
	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "multipart/"):
		header, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		if header.Size > s.maxUpload {
			return nil, internal.ErrTooLarge
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = f.Close()
		}()
		return decode(f, s.maxUpload)

	case contentType == gin.MIMEJSON:
		var req api.LoadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		buf, err := s.fetcher.Fetch(c.Request.Context(), req.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		return buf, nil

	default:
		return decode(c.Request.Body, s.maxUpload)
	}
}

func decode(r io.Reader, limit int64) (*pixel.Buffer, error) {
	buf, _, err := codec.Decode(internal.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return buf, nil
}

func (s *Server) get(c *gin.Context) {
	var resp api.Session
	if s.with(c, func(id uuid.UUID, sess *editor.Session) error {
		resp = summary(id, sess)
		return nil
	}) {
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) delete(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil || !s.store.Delete(id) {
		fail(c, editor.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func filterArgs(c *gin.Context) (filter.Op, filter.Params, error) {
	op, err := filter.ParseOp(c.Param("op"))
	if err != nil {
		return 0, filter.Params{}, err
	}
	var req api.FilterRequest
	if err := bind(c, &req); err != nil {
		return 0, filter.Params{}, err
	}
	return op, req.Params(), nil
}

func (s *Server) applyFilter(c *gin.Context) {
	op, params, err := filterArgs(c)
	if err != nil {
		fail(c, err)
		return
	}
	s.changed(c, func(sess *editor.Session) (bool, error) {
		return true, sess.ApplyFilter(op, params)
	})
}

// preview answers with the filtered image as PNG without committing it.
func (s *Server) preview(c *gin.Context) {
	op, params, err := filterArgs(c)
	if err != nil {
		fail(c, err)
		return
	}
	var out bytes.Buffer
	if s.with(c, func(_ uuid.UUID, sess *editor.Session) error {
		if err := sess.Preview(op, params); err != nil {
			return err
		}
		return writeSurface(&out, sess)
	}) {
		c.Data(http.StatusOK, codec.PNG.ContentType(), out.Bytes())
	}
}

func (s *Server) applyRecipe(c *gin.Context) {
	data, err := io.ReadAll(internal.LimitReader(c.Request.Body, s.maxUpload))
	if err != nil {
		fail(c, err)
		return
	}
	rec, err := recipe.Parse(bytes.NewReader(data))
	if err != nil {
		fail(c, err)
		return
	}
	s.changed(c, func(sess *editor.Session) (bool, error) {
		original, err := sess.Original()
		if err != nil {
			return false, err
		}
		stages, err := rec.Stages(original)
		if err != nil {
			return false, err
		}
		return sess.Pipeline(stages...)
	})
}

func (s *Server) undo(c *gin.Context) {
	s.changed(c, (*editor.Session).Undo)
}

func (s *Server) redo(c *gin.Context) {
	s.changed(c, (*editor.Session).Redo)
}

func (s *Server) startCrop(c *gin.Context) {
	var req api.StartCropRequest
	if err := bind(c, &req); err != nil {
		fail(c, err)
		return
	}
	s.changed(c, func(sess *editor.Session) (bool, error) {
		if req.Viewport != nil {
			if err := sess.SetViewport(req.Viewport.Width, req.Viewport.Height); err != nil {
				return false, err
			}
		}
		return true, sess.StartCrop()
	})
}

func (s *Server) setCropRect(c *gin.Context) {
	var rect crop.Rect
	if err := c.ShouldBindJSON(&rect); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	s.changed(c, func(sess *editor.Session) (bool, error) {
		return true, sess.SetCropRect(rect)
	})
}

func (s *Server) pointer(c *gin.Context) {
	var req api.PointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}

	var resp api.PointerResponse
	if s.with(c, func(_ uuid.UUID, sess *editor.Session) error {
		p := crop.Point{X: req.X, Y: req.Y}
		before := sess.Info().CropState
		switch req.Kind {
		case "down":
			sess.PointerDown(p)
		case "move":
			moved, err := sess.PointerMove(p)
			if err != nil {
				return err
			}
			resp.Changed = moved
		case "up":
			sess.PointerUp()
		}

		info := sess.Info()
		resp.Changed = resp.Changed || info.CropState != before
		resp.CropState = info.CropState
		resp.CropRect = info.CropRect
		resp.Cursor = sess.Cursor(p)
		return nil
	}) {
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) applyCrop(c *gin.Context) {
	s.changed(c, (*editor.Session).ApplyCrop)
}

func (s *Server) cancelCrop(c *gin.Context) {
	s.changed(c, func(sess *editor.Session) (bool, error) {
		cropping := sess.Info().CropRect != nil
		return cropping, sess.CancelCrop()
	})
}

func (s *Server) stampText(c *gin.Context) {
	var req api.TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	s.changed(c, func(sess *editor.Session) (bool, error) {
		return sess.StampText(req.Text, req.Options)
	})
}

// image answers with what the session's surface currently shows, including
// any crop overlay or preview.
func (s *Server) image(c *gin.Context) {
	var out bytes.Buffer
	if s.with(c, func(_ uuid.UUID, sess *editor.Session) error {
		return writeSurface(&out, sess)
	}) {
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, codec.PNG.ContentType(), out.Bytes())
	}
}

func (s *Server) export(c *gin.Context) {
	format, err := codec.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, err)
		return
	}

	var out bytes.Buffer
	if s.with(c, func(_ uuid.UUID, sess *editor.Session) error {
		return sess.Export(&out, format)
	}) {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename()))
		c.Data(http.StatusOK, format.ContentType(), out.Bytes())
	}
}

func writeSurface(w io.Writer, sess *editor.Session) error {
	surface := sess.Surface()
	if surface == nil {
		buf, err := sess.Current()
		if err != nil {
			return err
		}
		return codec.Encode(w, buf, codec.PNG)
	}
	buf, err := surface.GetImageData(surface.Bounds())
	if err != nil {
		return err
	}
	return codec.Encode(w, buf, codec.PNG)
}
