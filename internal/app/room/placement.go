package room

import (
	"math"
	"sync"

	"habitpet/internal/app/api"
)

// Phase is the state of a Placement.
type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// Bounds are the rendered room surface and item sizes. A zero container size
// means the surface has not been measured yet and positions are not clamped.
type Bounds struct {
	ContainerW, ContainerH float64
	ItemW, ItemH           float64
}

// Known reports whether the container has been measured.
func (b Bounds) Known() bool {
	return b.ContainerW > 0 && b.ContainerH > 0
}

// Clamp keeps a position inside [0, W-w] x [0, H-h]. Positions pass through
// unchanged while the container is unmeasured.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	if !b.Known() {
		return x, y
	}
	return clamp(x, math.Max(0, b.ContainerW-b.ItemW)), clamp(y, math.Max(0, b.ContainerH-b.ItemH))
}

// Snap is the committed form of a position: whole units inside the container.
// The result is a fixed point: Snap(Snap(p)) == Snap(p).
func (b Bounds) Snap(x, y float64) (float64, float64) {
	x, y = math.Round(x), math.Round(y)
	if !b.Known() {
		return x, y
	}
	return clamp(x, math.Floor(math.Max(0, b.ContainerW-b.ItemW))), clamp(y, math.Floor(math.Max(0, b.ContainerH-b.ItemH)))
}

func clamp(v, hi float64) float64 {
	return math.Min(math.Max(v, 0), hi)
}

// Placement drives the drag interaction of one placed item:
// Idle -> Dragging -> Idle. It never enters an error state; a failed commit is
// corrected by the next layout fetch through Sync.
type Placement struct {
	mu sync.Mutex

	placedItemID int64
	phase        Phase
	originX      float64
	originY      float64
	dx, dy       float64
	bounds       Bounds

	onMoveEnd func(x, y float64)
	onTap     func(placedItemID int64)
}

// NewPlacement seeds the origin from the item's confirmed position.
func NewPlacement(item api.PlacedItem, bounds Bounds, onMoveEnd func(x, y float64), onTap func(placedItemID int64)) *Placement {
	return &Placement{
		placedItemID: item.ID,
		originX:      item.X,
		originY:      item.Y,
		bounds:       bounds,
		onMoveEnd:    onMoveEnd,
		onTap:        onTap,
	}
}

func (p *Placement) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Position returns where the item should be drawn.
func (p *Placement) Position() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Placement) positionLocked() (float64, float64) {
	if p.phase == Idle {
		return p.originX, p.originY
	}
	return p.bounds.Clamp(p.originX+p.dx, p.originY+p.dy)
}

// SetBounds records the measured room and item sizes.
func (p *Placement) SetBounds(b Bounds) {
	p.mu.Lock()
	p.bounds = b
	p.mu.Unlock()
}

// Sync moves the origin to a server-confirmed position. It is ignored mid-drag.
func (p *Placement) Sync(item api.PlacedItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Dragging {
		return
	}
	p.originX, p.originY = item.X, item.Y
}

// Begin starts a drag. It reports false if a drag is already running.
func (p *Placement) Begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Dragging {
		return false
	}
	p.phase = Dragging
	p.dx, p.dy = 0, 0
	return true
}

// Update sets the cumulative gesture delta and returns the proposed position,
// clamped but not yet snapped to whole units.
func (p *Placement) Update(dx, dy float64) (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Dragging {
		p.dx, p.dy = dx, dy
	}
	return p.positionLocked()
}

// End commits the drag. onMoveEnd runs exactly once per drag, after the
// controller is back to Idle with its origin at the committed position.
func (p *Placement) End() bool {
	p.mu.Lock()
	if p.phase != Dragging {
		p.mu.Unlock()
		return false
	}
	x, y := p.bounds.Snap(p.originX+p.dx, p.originY+p.dy)
	p.originX, p.originY = x, y
	p.dx, p.dy = 0, 0
	p.phase = Idle
	cb := p.onMoveEnd
	p.mu.Unlock()

	if cb != nil {
		cb(x, y)
	}
	return true
}

// Tap requests removal of the item. Taps during a drag are ignored.
func (p *Placement) Tap() bool {
	p.mu.Lock()
	if p.phase == Dragging || p.onTap == nil {
		p.mu.Unlock()
		return false
	}
	cb, id := p.onTap, p.placedItemID
	p.mu.Unlock()

	cb(id)
	return true
}
