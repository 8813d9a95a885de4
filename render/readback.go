package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrBufferMapped   = errors.New("render: buffer is already mapped or pending")
	ErrNothingToMap   = errors.New("render: no copy recorded before map")
	ErrBufferUnmapped = errors.New("render: buffer is not mapped")
	ErrSizeMismatch   = errors.New("render: texture size does not match buffer")
	ErrSourceLost     = errors.New("render: copy source was released before the map completed")
)

// MapState is the host-visibility state of a ReadbackBuffer.
type MapState int

const (
	Unmapped MapState = iota
	MapPending
	Mapped
)

func (s MapState) String() string {
	switch s {
	case Unmapped:
		return "unmapped"
	case MapPending:
		return "pending"
	case Mapped:
		return "mapped"
	default:
		return fmt.Sprintf("MapState(%d)", int(s))
	}
}

// ReadbackBuffer is a staging buffer that copies a texture back to the CPU.
//
// The protocol mirrors a GPU map-read buffer: CopyFromTexture records a copy,
// MapAsync requests host access and Poll completes any pending map and fires
// its callback. MappedRange is only valid between a successful map and Unmap.
type ReadbackBuffer struct {
	mu       sync.Mutex
	width    int
	height   int
	data     []byte
	src      Texture
	state    MapState
	callback func(error)
}

// NewReadbackBuffer allocates a buffer for a w*h RGBA texture.
func NewReadbackBuffer(w, h int) *ReadbackBuffer {
	return &ReadbackBuffer{
		width:  w,
		height: h,
		data:   make([]byte, w*h*4),
	}
}

// Size returns the buffer length in bytes.
func (b *ReadbackBuffer) Size() int {
	return len(b.data)
}

// BytesPerRow returns the row pitch of the buffer.
func (b *ReadbackBuffer) BytesPerRow() int {
	return b.width * 4
}

// State returns the current map state.
func (b *ReadbackBuffer) State() MapState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CopyFromTexture records a copy of src into the buffer. The copy executes on
// the next Poll after MapAsync.
func (b *ReadbackBuffer) CopyFromTexture(src Texture) error {
	w, h := TextureSize(src)
	if w != b.width || h != b.height {
		return fmt.Errorf("%w: texture %dx%d, buffer %dx%d", ErrSizeMismatch, w, h, b.width, b.height)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Unmapped {
		return ErrBufferMapped
	}
	b.src = src
	return nil
}

// MapAsync requests host access. callback runs from Poll with nil on success.
func (b *ReadbackBuffer) MapAsync(callback func(error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Unmapped {
		return ErrBufferMapped
	}
	if b.src == nil {
		return ErrNothingToMap
	}
	b.state = MapPending
	b.callback = callback
	return nil
}

// Poll performs the recorded copy and completes a pending map. It returns
// true when a map completed, successfully or not. A source that no longer
// has the buffer's size fails the map with ErrSourceLost and leaves the
// buffer unmapped.
func (b *ReadbackBuffer) Poll() bool {
	b.mu.Lock()
	if b.state != MapPending {
		b.mu.Unlock()
		return false
	}

	var err error
	if w, h := TextureSize(b.src); w != b.width || h != b.height {
		err = fmt.Errorf("%w: source is now %dx%d", ErrSourceLost, w, h)
		b.state = Unmapped
	} else {
		b.src.ReadPixels(b.data)
		b.state = Mapped
	}
	b.src = nil
	callback := b.callback
	b.callback = nil
	b.mu.Unlock()

	if callback != nil {
		callback(err)
	}
	return true
}

// MappedRange returns the mapped bytes. The slice is only valid until Unmap.
func (b *ReadbackBuffer) MappedRange() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Mapped {
		return nil, ErrBufferUnmapped
	}
	return b.data, nil
}

// Unmap releases host access so the buffer can be copied into again.
func (b *ReadbackBuffer) Unmap() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Mapped {
		return ErrBufferUnmapped
	}
	b.state = Unmapped
	return nil
}

// MapReadBlocking maps the buffer and waits for the map to complete or ctx to
// end. The caller must Unmap when done with the returned bytes.
func (b *ReadbackBuffer) MapReadBlocking(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	if err := b.MapAsync(func(err error) { done <- err }); err != nil {
		return nil, err
	}
	b.Poll()

	// A completed map wins over a cancelled ctx.
	select {
	case err := <-done:
		return b.mapped(err)
	default:
	}

	select {
	case err := <-done:
		return b.mapped(err)
	case <-ctx.Done():
		b.abandon()
		return nil, ctx.Err()
	}
}

func (b *ReadbackBuffer) mapped(err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return b.MappedRange()
}

// abandon drops a map nobody will read.
func (b *ReadbackBuffer) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Unmapped
	b.src = nil
	b.callback = nil
}
