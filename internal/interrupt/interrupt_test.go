package interrupt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorsAndMasks(t *testing.T) {
	cases := []struct {
		src    Source
		mask   uint8
		vector uint16
	}{
		{VBlank, 0x01, 0x0040},
		{LCDStat, 0x02, 0x0048},
		{Timer, 0x04, 0x0050},
		{Serial, 0x08, 0x0058},
		{Joypad, 0x10, 0x0060},
	}
	for _, tc := range cases {
		require.Equal(t, tc.mask, tc.src.Mask())
		require.Equal(t, tc.vector, tc.src.Vector())
	}
}

func TestPendingPriorityOrder(t *testing.T) {
	c := NewController()
	c.SetIE(0x1F)
	c.Raise(Joypad)
	c.Raise(Timer)

	src, ok := c.Pending()
	require.True(t, ok)
	require.Equal(t, Timer, src, "lower-numbered source must win priority")

	c.Clear(Timer)
	src, ok = c.Pending()
	require.True(t, ok)
	require.Equal(t, Joypad, src)
}

func TestPendingRequiresEnable(t *testing.T) {
	c := NewController()
	c.Raise(VBlank)
	_, ok := c.Pending()
	require.False(t, ok, "IE must gate IF before an interrupt counts as pending")

	c.SetIE(0x01)
	_, ok = c.Pending()
	require.True(t, ok)
}

func TestIFReadsUnusedBitsHigh(t *testing.T) {
	c := NewController()
	require.Equal(t, uint8(0xE0), c.IF())
	c.SetIF(0xFF)
	require.Equal(t, uint8(0xFF), c.IF())
}

func TestHasAnyIgnoresIME(t *testing.T) {
	c := NewController()
	require.False(t, c.HasAny())
	c.SetIE(0x01)
	c.Raise(VBlank)
	require.True(t, c.HasAny())
}
