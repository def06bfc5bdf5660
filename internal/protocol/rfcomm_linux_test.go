//go:build linux

package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/model"
)

func TestParseBDAddr(t *testing.T) {
	addr, err := parseBDAddr("00:11:22:AA:BB:CC")
	require.NoError(t, err)
	assert.Equal(t, [6]byte{0xCC, 0xBB, 0xAA, 0x22, 0x11, 0x00}, addr)

	for _, bad := range []string{"", "00:11:22", "zz:11:22:aa:bb:cc", "00:11:22:33:44:55:66:77"} {
		_, err := parseBDAddr(bad)
		assert.True(t, errors.Is(err, model.ErrDeviceNotFound), bad)
	}
}
