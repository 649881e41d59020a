package templatecodec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxDecodedLen is the default output bound, matching the vendor
// engine's maximum template size.
const MaxDecodedLen = 2048

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Policy selects how the decoder treats symbols outside the alphabet.
type Policy int

const (
	// PolicyReject fails the record with a *DecodeError.
	PolicyReject Policy = iota
	// PolicyCoerce substitutes symbol value 0 and continues, matching
	// the legacy vendor decoder so old exports remain ingestible.
	PolicyCoerce
)

func (p Policy) String() string {
	switch p {
	case PolicyCoerce:
		return "coerce"
	default:
		return "reject"
	}
}

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "reject":
		return PolicyReject, nil
	case "coerce":
		return PolicyCoerce, nil
	default:
		return PolicyReject, fmt.Errorf("decode policy: unsupported value %q (reject or coerce)", value)
	}
}

// DecodeError reports malformed encoded template text.
type DecodeError struct {
	Offset int
	Byte   byte
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Byte != 0 {
		return fmt.Sprintf("decode template: %s %q at offset %d", e.Reason, e.Byte, e.Offset)
	}
	return fmt.Sprintf("decode template: %s at offset %d", e.Reason, e.Offset)
}

// symbolValues maps input bytes to 6-bit symbol values; -1 marks bytes
// outside the alphabet.
var symbolValues = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		table[alphabet[i]] = int8(i)
	}
	return table
}()

func isTerminator(c byte) bool {
	switch c {
	case 0, '\r', '\n', ' ', '\t':
		return true
	}
	return false
}

// Option customizes a Decoder.
type Option func(*Decoder)

// WithPolicy sets the unknown-symbol policy.
func WithPolicy(p Policy) Option {
	return func(d *Decoder) { d.policy = p }
}

// WithMaxDecodedLen overrides the output bound.
func WithMaxDecodedLen(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.max = n
		}
	}
}

// Decoder converts encoded template lines to raw template bytes.
type Decoder struct {
	policy Policy
	max    int
}

// NewDecoder constructs a Decoder. The default policy rejects unknown
// symbols and bounds output at MaxDecodedLen.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{policy: PolicyReject, max: MaxDecodedLen}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy returns the configured unknown-symbol policy.
func (d *Decoder) Policy() Policy {
	return d.policy
}

// Decode converts one line of encoded text to template bytes. Decoding
// stops at the first terminator byte (NUL, CR, LF, space, tab) or at
// padding, so trailing newlines are never treated as data. Empty input
// decodes to an empty result with no error.
func (d *Decoder) Decode(line []byte) ([]byte, error) {
	out := make([]byte, 0, d.max)
	pos := 0

	for {
		var vals [4]byte
		n := 0
		padAt := -1

		for n < 4 && pos < len(line) && !isTerminator(line[pos]) {
			c := line[pos]
			if c == '=' {
				padAt = n
				break
			}
			v := symbolValues[c]
			if v < 0 {
				if d.policy == PolicyReject {
					return nil, &DecodeError{Offset: pos, Byte: c, Reason: "invalid symbol"}
				}
				v = 0
			}
			vals[n] = byte(v)
			n++
			pos++
		}

		if n == 0 && padAt < 0 {
			return out, nil
		}
		if padAt >= 0 && padAt < 2 {
			return nil, &DecodeError{Offset: pos, Byte: '=', Reason: "misplaced padding"}
		}
		if n == 1 {
			return nil, &DecodeError{Offset: pos - 1, Byte: line[pos-1], Reason: "orphan symbol in final block"}
		}

		block := [3]byte{
			vals[0]<<2 | vals[1]>>4,
			vals[1]<<4 | vals[2]>>2,
			vals[2]<<6 | vals[3],
		}
		emit := n - 1
		if len(out)+emit > d.max {
			return nil, &DecodeError{Offset: pos, Reason: "output exceeds maximum template size"}
		}
		out = append(out, block[:emit]...)

		// Padding or a short final block ends the record.
		if padAt >= 0 || n < 4 {
			return out, nil
		}
	}
}

// Encode renders template bytes in the text form vendor tools expect.
func Encode(template []byte) string {
	return base64.StdEncoding.EncodeToString(template)
}
