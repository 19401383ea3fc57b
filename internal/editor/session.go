// Package editor ties the pixel, filter, crop and history packages together
// into an editing session.
package editor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"time"

	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/crop"
	"github.com/rm-hull/photo-editor/internal/filter"
	"github.com/rm-hull/photo-editor/internal/history"
	"github.com/rm-hull/photo-editor/internal/pixel"
	"github.com/rm-hull/photo-editor/internal/text"
)

// ErrNotLoaded is returned by operations that need an image before one has
// been loaded.
var ErrNotLoaded = fmt.Errorf("%w: no image loaded", pixel.ErrPrecondition)

// DefaultHistoryLimit caps the number of snapshots a session keeps.
const DefaultHistoryLimit = 50

// Session owns one image being edited: the buffer captured at load time, the
// working buffer, its history and the crop gesture in progress. A Session is
// not safe for concurrent use; Store serialises access to it.
type Session struct {
	name     string
	original *pixel.Buffer
	current  *pixel.Buffer
	history  *history.Stack
	crop     *crop.Controller
	surface  Surface
	rand     filter.Source
	verbose  bool
	viewW    float64
	viewH    float64
}

type Option func(*Session)

// WithSurface renders every change onto s.
func WithSurface(s Surface) Option {
	return func(sess *Session) { sess.surface = s }
}

// WithRand sets the random source used by the noise filter.
func WithRand(src filter.Source) Option {
	return func(sess *Session) { sess.rand = src }
}

// WithHistoryLimit bounds the undo history; zero or less keeps everything.
func WithHistoryLimit(n int) Option {
	return func(sess *Session) { sess.history = history.New(n) }
}

// WithName labels the session in log output.
func WithName(name string) Option {
	return func(sess *Session) { sess.name = name }
}

// WithLogging logs each committed edit.
func WithLogging(enabled bool) Option {
	return func(sess *Session) { sess.verbose = enabled }
}

func NewSession(opts ...Option) *Session {
	sess := &Session{
		name:    "session",
		history: history.New(DefaultHistoryLimit),
		crop:    crop.NewController(crop.Identity),
		rand:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(sess)
	}
	return sess
}

// Load makes buf the original and current image, seeding the history with it.
// Any previous image, history and crop gesture are discarded.
func (s *Session) Load(buf *pixel.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", pixel.ErrPrecondition)
	}
	s.original = buf.Clone()
	s.current = buf.Clone()
	s.history = history.New(s.historyLimit())
	s.history.Commit(s.current)
	s.crop.Cancel()
	s.viewW, s.viewH = 0, 0
	s.crop.SetMapper(crop.Identity)
	s.logf("loaded %dx%d image", buf.Width(), buf.Height())
	return s.Render()
}

func (s *Session) historyLimit() int {
	if s.history == nil {
		return DefaultHistoryLimit
	}
	return s.history.Limit()
}

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool {
	return s.current != nil
}

// Current returns a copy of the working image.
func (s *Session) Current() (*pixel.Buffer, error) {
	if !s.Loaded() {
		return nil, ErrNotLoaded
	}
	return s.current.Clone(), nil
}

// Original returns a copy of the image as it was loaded.
func (s *Session) Original() (*pixel.Buffer, error) {
	if !s.Loaded() {
		return nil, ErrNotLoaded
	}
	return s.original.Clone(), nil
}

// Surface returns the surface the session renders to, or nil.
func (s *Session) Surface() Surface {
	return s.surface
}

// ApplyFilter runs op over the working image and commits the result. On
// error the session is unchanged.
func (s *Session) ApplyFilter(op filter.Op, params filter.Params) error {
	out, err := s.filter(op, params)
	if err != nil {
		return err
	}
	s.commit(out, op.String())
	return nil
}

// Preview renders the result of op without committing it. The next Render
// or committed edit replaces it.
func (s *Session) Preview(op filter.Op, params filter.Params) error {
	out, err := s.filter(op, params)
	if err != nil {
		return err
	}
	return s.show(out)
}

func (s *Session) filter(op filter.Op, params filter.Params) (*pixel.Buffer, error) {
	if !s.Loaded() {
		return nil, ErrNotLoaded
	}
	if params.Rand == nil {
		params.Rand = s.rand
	}
	params.Original = s.original
	return filter.Apply(s.current, op, params)
}

// Pipeline commits the result of running every stage in order as a single
// history entry. It reports false when no stage produced a new image.
func (s *Session) Pipeline(stages ...filter.Stage) (bool, error) {
	if !s.Loaded() {
		return false, ErrNotLoaded
	}
	out, err := filter.Pipeline(s.current, stages...)
	if err != nil {
		return false, err
	}
	if out == s.current {
		return false, nil
	}
	s.commit(out, fmt.Sprintf("pipeline of %d stages", len(stages)))
	return true, nil
}

// Undo steps back one history entry. It reports false when there is nothing
// to undo.
func (s *Session) Undo() (bool, error) {
	buf, ok := s.history.Undo()
	if !ok {
		s.logf("undo ignored: %v", pixel.ErrEmptyHistory)
		return false, nil
	}
	s.current = buf
	s.logf("undo to %d/%d", s.history.Index()+1, s.history.Len())
	return true, s.Render()
}

// Redo re-applies the next history entry. It reports false when there is
// nothing to redo.
func (s *Session) Redo() (bool, error) {
	buf, ok := s.history.Redo()
	if !ok {
		s.logf("redo ignored: %v", pixel.ErrEmptyHistory)
		return false, nil
	}
	s.current = buf
	s.logf("redo to %d/%d", s.history.Index()+1, s.history.Len())
	return true, s.Render()
}

// StartCrop enters crop mode over the working image.
func (s *Session) StartCrop() error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if err := s.crop.Start(s.current.Width(), s.current.Height()); err != nil {
		return err
	}
	return s.Render()
}

// SetViewport maps pointer coordinates from a view of the given size onto
// the working image. The scale follows the image as its size changes.
func (s *Session) SetViewport(width, height float64) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: viewport %gx%g", pixel.ErrInvalidDimension, width, height)
	}
	s.viewW, s.viewH = width, height
	s.crop.SetMapper(s.toImage)
	return nil
}

func (s *Session) toImage(p crop.Point) crop.Point {
	if !s.Loaded() {
		return p
	}
	return crop.ViewportMapper(s.viewW, s.viewH, s.current.Width(), s.current.Height())(p)
}

// SetCropRect replaces the crop rectangle while crop mode is active.
func (s *Session) SetCropRect(r crop.Rect) error {
	if err := s.crop.SetRect(r); err != nil {
		return err
	}
	return s.Render()
}

func (s *Session) PointerDown(p crop.Point) crop.State {
	return s.crop.PointerDown(p)
}

// PointerMove feeds a pointer position to the crop gesture and re-renders
// the overlay when the rectangle moved.
func (s *Session) PointerMove(p crop.Point) (bool, error) {
	if !s.crop.PointerMove(p) {
		return false, nil
	}
	return true, s.Render()
}

func (s *Session) PointerUp() {
	s.crop.PointerUp()
}

// Cursor returns the cursor hint for a pointer hovering at p.
func (s *Session) Cursor(p crop.Point) string {
	return s.crop.Cursor(p)
}

// ApplyCrop replaces the working image with the selected region and commits
// it. Outside crop mode, or when the region has no area, it is a no-op that
// reports false and leaves crop mode as it was.
func (s *Session) ApplyCrop() (bool, error) {
	if !s.Loaded() {
		return false, ErrNotLoaded
	}
	region, err := s.crop.Commit(s.current.Width(), s.current.Height())
	switch {
	case errors.Is(err, crop.ErrNotActive), errors.Is(err, pixel.ErrDegenerateCrop):
		s.logf("crop ignored: %v", err)
		return false, nil
	case err != nil:
		return false, err
	}

	out, err := s.current.SubImage(region)
	if err != nil {
		return false, err
	}
	s.commit(out, fmt.Sprintf("crop %v", region))
	return true, nil
}

// CancelCrop leaves crop mode without changing the image.
func (s *Session) CancelCrop() error {
	if !s.crop.Cropping() {
		return nil
	}
	s.crop.Cancel()
	return s.Render()
}

// StampText draws str centered on the image's horizontal midline and
// commits it. Empty text is a no-op that reports false.
func (s *Session) StampText(str string, opts text.Options) (bool, error) {
	if !s.Loaded() {
		return false, ErrNotLoaded
	}
	if str == "" {
		return false, nil
	}
	out, err := text.Stamp(s.current, str, opts)
	if err != nil {
		return false, err
	}
	s.commit(out, fmt.Sprintf("text %q", str))
	return true, nil
}

// Export writes the working image, or for animated formats every history
// frame up to the current one.
func (s *Session) Export(w io.Writer, format codec.Format) error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	if format.Animated() {
		return codec.Animate(w, s.history.Frames(), codec.DefaultFrameDelay, format)
	}
	return codec.Encode(w, s.current, format)
}

// Render pushes the working image to the surface, with the crop overlay when
// crop mode is active.
func (s *Session) Render() error {
	if !s.Loaded() {
		return ErrNotLoaded
	}
	out := s.current
	if s.crop.Cropping() {
		out = crop.Overlay(s.current, s.crop.Rect())
	}
	return s.show(out)
}

func (s *Session) show(buf *pixel.Buffer) error {
	if s.surface == nil {
		return nil
	}
	if err := s.surface.Resize(buf.Width(), buf.Height()); err != nil {
		return err
	}
	s.surface.PutImageData(buf, 0, 0)
	return nil
}

func (s *Session) commit(buf *pixel.Buffer, what string) {
	s.current = buf
	s.history.Commit(buf)
	s.logf("%s committed (%dx%d, history %d/%d)", what, buf.Width(), buf.Height(), s.history.Index()+1, s.history.Len())
	if err := s.Render(); err != nil {
		log.Printf("%s: failed to render: %v", s.name, err)
	}
}

func (s *Session) logf(format string, args ...any) {
	if s.verbose {
		log.Printf(s.name+": "+format, args...)
	}
}

// Info is a snapshot of the session state.
type Info struct {
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	HistoryIndex int        `json:"historyIndex"`
	HistoryLen   int        `json:"historyLen"`
	CanUndo      bool       `json:"canUndo"`
	CanRedo      bool       `json:"canRedo"`
	CropState    string     `json:"cropState"`
	CropRect     *crop.Rect `json:"cropRect,omitempty"`
}

func (s *Session) Info() Info {
	info := Info{
		HistoryIndex: s.history.Index(),
		HistoryLen:   s.history.Len(),
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
		CropState:    s.crop.State().String(),
	}
	if s.Loaded() {
		info.Width = s.current.Width()
		info.Height = s.current.Height()
	}
	if s.crop.Cropping() {
		r := s.crop.Rect()
		info.CropRect = &r
	}
	return info
}
