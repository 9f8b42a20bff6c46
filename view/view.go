package view

import (
	"log/slog"
	"sync"

	"github.com/signadot/tron-format/tron/nav"
	"github.com/signadot/tron-format/tron/update"
	"github.com/signadot/tron-format/tron/value"
	"github.com/signadot/tron-format/tron/wire"
)

// Option configures a View.
type Option func(*View)

// WithLogger attaches a logger for cache-invalidation and navigation
// diagnostics. If not supplied, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) { v.logger = logger }
}

// shared is the state every sub-view of one root View holds a pointer
// to: the live buffer, the key-hash cache, and a version counter bumped
// on every local write.
type shared struct {
	mu      sync.Mutex
	buf     []byte
	version uint64
	keyHash map[string]uint32
	logger  *slog.Logger
}

// View is a read/write path over a TRON buffer that decodes only the
// nodes a lookup's path touches.
type View struct {
	shared        *shared
	basePath      value.Path
	cachedVersion uint64
	offset        uint32
	logger        *slog.Logger

	mu       sync.Mutex
	subViews map[string]*View
}

// New opens a View over buf's current root.
func New(buf []byte, opts ...Option) (*View, error) {
	rootOffset, _, err := wire.Footer(buf)
	if err != nil {
		return nil, err
	}
	v := &View{
		shared: &shared{
			buf:     buf,
			keyHash: make(map[string]uint32),
			logger:  slog.Default(),
		},
		offset:   rootOffset,
		subViews: make(map[string]*View),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = v.shared.logger
	} else {
		v.shared.logger = v.logger
	}
	v.cachedVersion = v.shared.version
	return v, nil
}

// Bytes returns the view's current buffer.
func (v *View) Bytes() []byte {
	v.shared.mu.Lock()
	defer v.shared.mu.Unlock()
	return v.shared.buf
}

// refresh re-resolves this view's offset against the current shared
// buffer if a write elsewhere has bumped the version since this view
// last resolved itself. Sub-views chain through their parent's base
// path, so this walks from the document root.
func (v *View) refresh() error {
	v.shared.mu.Lock()
	stale := v.cachedVersion != v.shared.version
	buf := v.shared.buf
	v.shared.mu.Unlock()
	if !stale {
		return nil
	}
	rootOffset, _, err := wire.Footer(buf)
	if err != nil {
		return err
	}
	offset, found, err := nav.Resolve(buf, rootOffset, v.basePath, v.shared.keyHash)
	if err != nil {
		return err
	}
	if found {
		v.offset = offset
	}
	v.cachedVersion = v.shared.version
	v.mu.Lock()
	v.subViews = make(map[string]*View)
	v.mu.Unlock()
	return nil
}

// Read resolves path relative to this view and fully materializes
// whatever value is found there.
func (v *View) Read(path value.Path) (value.Value, bool, error) {
	if err := v.refresh(); err != nil {
		return value.Value{}, false, err
	}
	buf := v.Bytes()
	offset, found, err := nav.Resolve(buf, v.offset, path, v.shared.keyHash)
	if err != nil || !found {
		return value.Value{}, found, err
	}
	val, err := Decode(buf, offset)
	return val, true, err
}

// Sub returns a memoized lazy sub-view for path relative to this view,
// or nil with no error when path does not resolve. The target is not
// checked to be a container: a scalar target yields a View whose
// Read of the empty path returns that scalar.
func (v *View) Sub(path value.Path) (*View, error) {
	if err := v.refresh(); err != nil {
		return nil, err
	}
	key := path.String()
	v.mu.Lock()
	if sv, ok := v.subViews[key]; ok {
		v.mu.Unlock()
		return sv, nil
	}
	v.mu.Unlock()

	buf := v.Bytes()
	offset, found, err := nav.Resolve(buf, v.offset, path, v.shared.keyHash)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	sv := &View{
		shared:        v.shared,
		basePath:      append(append(value.Path{}, v.basePath...), path...),
		cachedVersion: v.shared.version,
		offset:        offset,
		logger:        v.logger,
		subViews:      make(map[string]*View),
	}
	v.mu.Lock()
	v.subViews[key] = sv
	v.mu.Unlock()
	return sv, nil
}

// Write installs value at path, replacing this view's buffer with a
// new one via the copy-on-write updater and bumping the shared version
// so stale sub-views re-resolve on next use.
func (v *View) Write(path value.Path, val value.Value) error {
	if err := v.refresh(); err != nil {
		return err
	}
	full := append(append(value.Path{}, v.basePath...), path...)
	v.shared.mu.Lock()
	buf := v.shared.buf
	v.shared.mu.Unlock()

	newBuf, err := update.SetPath(buf, full, val)
	if err != nil {
		return err
	}

	v.shared.mu.Lock()
	v.shared.buf = newBuf
	v.shared.version++
	v.shared.mu.Unlock()
	v.logger.Debug("view write", "path", full.String())
	return v.refresh()
}
