package graph

// StoreGetter produces a snapshot of one external state domain. Getters are
// invoked exactly once per frame during capture; the value they return must be
// a copy (or an immutable value), never a reference the external store keeps
// mutating, since the frame context holds it for the whole frame.
type StoreGetter func() any

// FrameContext is the immutable snapshot of external application state
// captured once at the start of each frame. Every pass's enable predicate and
// parameter read goes through this snapshot, never through the live stores, so
// a single frame observes one coherent view of the outside world even when
// stores mutate mid-frame.
type FrameContext struct {
	values map[string]any
	frame  uint64
	delta  float32
}

// captureFrame builds a snapshot by invoking each getter exactly once.
func captureFrame(getters map[string]StoreGetter, order []string, frame uint64, delta float32) *FrameContext {
	values := make(map[string]any, len(getters))
	for _, name := range order {
		values[name] = getters[name]()
	}
	return &FrameContext{values: values, frame: frame, delta: delta}
}

// Frame returns the monotonically increasing frame number of this snapshot.
//
// Returns:
//   - uint64: the frame number, starting at 1
func (c *FrameContext) Frame() uint64 { return c.frame }

// Delta returns the time elapsed since the previous frame, in seconds.
//
// Returns:
//   - float32: the frame delta time
func (c *FrameContext) Delta() float32 { return c.delta }

// Value returns the raw snapshot value for a store domain.
//
// Parameters:
//   - name: the store domain name registered via SetStoreGetters
//
// Returns:
//   - any: the captured value
//   - bool: true if the domain exists in this snapshot
func (c *FrameContext) Value(name string) (any, bool) {
	v, exists := c.values[name]
	return v, exists
}

// Bool returns a snapshot value as a bool, or the default when the domain is
// missing or holds a different type.
//
// Parameters:
//   - name: the store domain name
//   - def: the value returned when the domain is absent or mistyped
//
// Returns:
//   - bool: the captured value or the default
func (c *FrameContext) Bool(name string, def bool) bool {
	if v, exists := c.values[name]; exists {
		if b, valid := v.(bool); valid {
			return b
		}
	}
	return def
}

// Float returns a snapshot value as a float32, or the default when the domain
// is missing or holds a different type. float64 values are converted.
//
// Parameters:
//   - name: the store domain name
//   - def: the value returned when the domain is absent or mistyped
//
// Returns:
//   - float32: the captured value or the default
func (c *FrameContext) Float(name string, def float32) float32 {
	switch v := c.values[name].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	default:
		return def
	}
}

// Int returns a snapshot value as an int, or the default when the domain is
// missing or holds a different type.
//
// Parameters:
//   - name: the store domain name
//   - def: the value returned when the domain is absent or mistyped
//
// Returns:
//   - int: the captured value or the default
func (c *FrameContext) Int(name string, def int) int {
	if v, exists := c.values[name]; exists {
		if i, valid := v.(int); valid {
			return i
		}
	}
	return def
}

// String returns a snapshot value as a string, or the default when the domain
// is missing or holds a different type.
//
// Parameters:
//   - name: the store domain name
//   - def: the value returned when the domain is absent or mistyped
//
// Returns:
//   - string: the captured value or the default
func (c *FrameContext) String(name string, def string) string {
	if v, exists := c.values[name]; exists {
		if s, valid := v.(string); valid {
			return s
		}
	}
	return def
}
