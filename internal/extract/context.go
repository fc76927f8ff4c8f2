// Package extract turns free-text crime-risk queries into structured
// (date, time, longitude, latitude) parameters. Extraction is a set of
// priority-ordered pattern cascades with first-match-wins semantics; values
// absent from the query text are resolved from the conversation context, and
// only then from hardcoded defaults.
package extract

// Context carries parameters across the turns of one conversation session.
// It is owned exclusively by one session and passed explicitly into the
// extraction pipeline; there is no process-wide instance. A field, once set,
// is only overwritten by a newer successful extraction, never partially
// cleared. Reset is the only way to clear it.
type Context struct {
	Longitude     *float64
	Latitude      *float64
	Date          string // YYYY-MM-DD, empty when unset
	Time          string // HH:MM, empty when unset
	LastQueryType string
}

// NewContext returns an empty conversation context.
func NewContext() *Context {
	return &Context{}
}

// HasCoordinates reports whether both coordinates are known.
func (c *Context) HasCoordinates() bool {
	return c.Longitude != nil && c.Latitude != nil
}

// Reset clears all carried-over state, returning the context to its initial
// empty state. Used by the "clear history" surface.
func (c *Context) Reset() {
	*c = Context{}
}
