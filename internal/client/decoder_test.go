package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecoderReassemblesSplitRunes(t *testing.T) {
	text := "Halo, saya Rangga 👋 café 世界"
	data := []byte(text)

	for split := 0; split <= len(data); split++ {
		var dec utf8Decoder
		got := dec.Decode(data[:split]) + dec.Decode(data[split:]) + dec.Flush()
		assert.Equal(t, text, got, "split at %d", split)
	}
}

func TestDecoderOneByteAtATime(t *testing.T) {
	text := "Zürich → 東京"

	var dec utf8Decoder
	got := ""
	for _, b := range []byte(text) {
		got += dec.Decode([]byte{b})
	}
	got += dec.Flush()

	assert.Equal(t, text, got)
}

func TestDecoderReplacesTruncatedSequenceOnFlush(t *testing.T) {
	var dec utf8Decoder
	data := []byte("ok 世")

	assert.Equal(t, "ok ", dec.Decode(data[:len(data)-1]))
	assert.Equal(t, "�", dec.Flush())
	assert.Empty(t, dec.Flush())
}

func TestDecoderReplacesInvalidBytes(t *testing.T) {
	var dec utf8Decoder
	assert.Equal(t, "a�b", dec.Decode([]byte{'a', 0xff, 'b'}))
}
