// Package zoom owns the preview scale factor.
//
// A zoom request multiplies the current scale by a factor. The result is
// committed only when it lies inside the inclusive [Min, Max] range;
// otherwise the request is rejected and the scale is left as it was. The
// result is never clamped to the nearest bound.
package zoom

import (
	"fmt"
	"math"
	"sync"
)

// Defaults for the preview control surface.
const (
	DefaultScale     = 1.0
	DefaultMin       = 0.5
	DefaultMax       = 2.0
	DefaultInFactor  = 1.2
	DefaultOutFactor = 0.8

	// MaxScale is the largest Max a configuration may set.
	MaxScale = 4.0
)

// Options configures a Controller.
type Options struct {
	Min       float64 // smallest committed scale, inclusive
	Max       float64 // largest committed scale, inclusive
	InFactor  float64 // factor applied by ZoomIn
	OutFactor float64 // factor applied by ZoomOut
}

// DefaultOptions returns the standard range and step factors.
func DefaultOptions() Options {
	return Options{
		Min:       DefaultMin,
		Max:       DefaultMax,
		InFactor:  DefaultInFactor,
		OutFactor: DefaultOutFactor,
	}
}

// Validate checks that the range contains the default scale and that the
// step factors move in the right direction.
func (o Options) Validate() error {
	switch {
	case !(o.Min > 0) || math.IsInf(o.Min, 0):
		return fmt.Errorf("zoom min must be positive, got %v", o.Min)
	case !(o.Max >= o.Min) || math.IsInf(o.Max, 0):
		return fmt.Errorf("zoom max %v must not be below min %v", o.Max, o.Min)
	case o.Max > MaxScale:
		return fmt.Errorf("zoom max %v exceeds %v", o.Max, MaxScale)
	case o.Min > DefaultScale || o.Max < DefaultScale:
		return fmt.Errorf("zoom range [%v, %v] must contain %v", o.Min, o.Max, DefaultScale)
	case !(o.InFactor > 1):
		return fmt.Errorf("zoom in factor must be greater than 1, got %v", o.InFactor)
	case !(o.OutFactor > 0 && o.OutFactor < 1):
		return fmt.Errorf("zoom out factor must be in (0, 1), got %v", o.OutFactor)
	}
	return nil
}

// Controller holds the current scale. It is safe for concurrent use.
type Controller struct {
	mu    sync.RWMutex
	opts  Options
	scale float64
}

// New creates a controller at DefaultScale.
// Options that fail Validate are replaced by DefaultOptions.
func New(opts Options) *Controller {
	if opts.Validate() != nil {
		opts = DefaultOptions()
	}
	return &Controller{opts: opts, scale: DefaultScale}
}

// NewDefault creates a controller with DefaultOptions.
func NewDefault() *Controller {
	return New(DefaultOptions())
}

// Options returns the controller's range and factors.
func (c *Controller) Options() Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts
}

// Current returns the current scale.
func (c *Controller) Current() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}

// ZoomBy multiplies the scale by factor if the result stays in range.
// Returns true if the scale changed. A rejected request is not an error.
func (c *Controller) ZoomBy(factor float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	candidate := c.scale * factor
	if !(candidate >= c.opts.Min && candidate <= c.opts.Max) {
		return false
	}
	if candidate == c.scale {
		return false
	}
	c.scale = candidate
	return true
}

// ZoomIn applies the zoom-in factor.
func (c *Controller) ZoomIn() bool {
	return c.ZoomBy(c.Options().InFactor)
}

// ZoomOut applies the zoom-out factor.
func (c *Controller) ZoomOut() bool {
	return c.ZoomBy(c.Options().OutFactor)
}

// Reset sets the scale to DefaultScale unconditionally.
// Returns true if the scale changed.
func (c *Controller) Reset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.scale != DefaultScale
	c.scale = DefaultScale
	return changed
}
