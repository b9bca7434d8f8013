package codec

import "fmt"

// Protocol selects an encoding variant.
type Protocol int

const (
	// MaxProtocol is the highest protocol this codec implements.
	MaxProtocol Protocol = 5

	// DefaultProtocols is the default size of the protocol range [0, k).
	DefaultProtocols = int(MaxProtocol) + 1
)

// Valid reports whether p is implemented.
func (p Protocol) Valid() bool {
	return p >= 0 && p <= MaxProtocol
}

func (p Protocol) String() string {
	return fmt.Sprintf("protocol %d", int(p))
}

// Range returns the protocols [0, k). It does not clamp k to MaxProtocol;
// protocols past the maximum fail individually at encode time.
func Range(k int) []Protocol {
	if k <= 0 {
		return nil
	}
	out := make([]Protocol, k)
	for i := range out {
		out[i] = Protocol(i)
	}
	return out
}

// capability flags, checked by the encoder.
func (p Protocol) textual() bool        { return p == 0 }
func (p Protocol) hasHeader() bool      { return p >= 2 }
func (p Protocol) hasFraming() bool     { return p >= 4 }
func (p Protocol) hasBytes() bool       { return p >= 3 }
func (p Protocol) hasBoxedFloats() bool { return p >= 2 }
func (p Protocol) hasNativeSets() bool  { return p >= 4 }
func (p Protocol) hasNewObj() bool      { return p >= 2 }
func (p Protocol) hasStackGlobal() bool { return p >= 4 }
func (p Protocol) hasShortTuples() bool { return p >= 2 }
func (p Protocol) implicitMemo() bool   { return p >= 4 }
func (p Protocol) hasBytes8() bool      { return p >= 5 }
