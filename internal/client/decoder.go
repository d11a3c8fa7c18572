package client

import (
	"strings"
	"unicode/utf8"
)

// utf8Decoder turns a byte stream into text, holding back a multi-byte
// sequence split across reads until the rest of it arrives.
type utf8Decoder struct {
	pending []byte
}

// Decode returns the complete text in p plus any bytes carried from before
func (d *utf8Decoder) Decode(p []byte) string {
	data := make([]byte, 0, len(d.pending)+len(p))
	data = append(data, d.pending...)
	data = append(data, p...)

	cut := len(data)
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if !utf8.FullRune(data[i:]) {
			cut = i
		}
		break
	}

	d.pending = append([]byte(nil), data[cut:]...)
	return strings.ToValidUTF8(string(data[:cut]), string(utf8.RuneError))
}

// Flush returns whatever is still held back. An incomplete sequence at the
// end of the stream decodes to the replacement character.
func (d *utf8Decoder) Flush() string {
	rest := d.pending
	d.pending = nil
	if len(rest) == 0 {
		return ""
	}
	return strings.ToValidUTF8(string(rest), string(utf8.RuneError))
}
