package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	data := []byte("123456789")
	assert.Equal(t, uint32(0xe3069283), CRC32C(data))

	h := NewCRC32C()
	_, _ = h.Write(data[:4])
	_, _ = h.Write(data[4:])
	assert.Equal(t, CRC32C(data), h.Sum32())
}

func TestEncodings(t *testing.T) {
	assert.Equal(t, "4waSgw==", Base64(0xe3069283))
	assert.Equal(t, "e3069283", Hex(0xe3069283))
	assert.Equal(t, "00000000", Hex(0))
}
