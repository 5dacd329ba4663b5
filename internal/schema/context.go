// Package schema defines the shared value types exchanged between windows:
// contexts, channels, app definitions and intent resolutions.
package schema

// ContextTypeInstrument tags a context carrying a financial instrument.
const ContextTypeInstrument = "instrument"

// Context is the open-schema payload exchanged over channels and the
// context bus. By convention the "type" field discriminates the shape;
// all other fields are producer-defined.
type Context map[string]any

// Type returns the context's "type" discriminator, or "" when absent.
func (c Context) Type() string {
	t, _ := c["type"].(string)
	return t
}

// NewInstrumentContext builds the common instrument context
// (e.g. the currently selected ticker).
func NewInstrumentContext(ticker string) Context {
	return Context{
		"type":   ContextTypeInstrument,
		"ticker": ticker,
	}
}

// Clone returns a shallow copy so handlers can annotate a context
// without mutating the sender's map.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
