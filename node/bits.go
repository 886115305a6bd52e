package node

// Bits is the flag set carried by method-like nodes. The host inspects these
// bits directly, so their values must not change.
type Bits uint32

const (
	// BitSuppressReparse marks a method-like node whose body must never be
	// lexed or parsed by the host. Every method-like node that does not come
	// from source text has to carry it, since there is no text to parse.
	BitSuppressReparse Bits = 0x80000
)

// Suppressed reports whether the host must skip parsing this node's body.
func (b *Bits) Suppressed() bool {
	return b != nil && *b&BitSuppressReparse != 0
}

// Suppress sets BitSuppressReparse.
func (b *Bits) Suppress() {
	if b != nil {
		*b |= BitSuppressReparse
	}
}
