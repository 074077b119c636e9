package fields

// resolution is the two-variant state behind lazy token resolution: either
// raw submitted tokens are pending, or the field's resolved value is
// authoritative. Reading data while pending resolves once and transitions
// the state; it never flips back without new form input.
type resolution struct {
	pending bool
	tokens  []string
}

func (r *resolution) setPending(tokens []string) {
	r.pending = true
	r.tokens = tokens
}

func (r *resolution) clear() {
	r.pending = false
	r.tokens = nil
}

// take returns the pending tokens, if any. The caller must transition the
// state via clear (through the field's data setter) after resolving.
func (r *resolution) take() ([]string, bool) {
	if !r.pending {
		return nil, false
	}
	return r.tokens, true
}
