package reporter

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestWeiToHumanReadable(t *testing.T) {
	cases := []struct {
		wei  uint64
		want string
	}{
		{0, "0 ETH"},
		{1, "1 wei"},
		{42, "42 wei"},
		{99_999, "99999 wei"},
		{100_000, "0.0001 gwei"},
		{150_000_000_000, "150 gwei"},
		{1_500_000_000, "1.5 gwei"},
		{99_999_999_999_999, "99999.9999 gwei"},
		{100_000_000_000_000, "0.0001 ETH"},
		{1_234_500_000_000_000_000, "1.2345 ETH"},
		{2_000_000_000_000_000_000, "2 ETH"},
		{2_000_100_000_000_000_000, "2.0001 ETH"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WeiToHumanReadable(uint256.NewInt(tc.wei)), "wei=%d", tc.wei)
	}
}

func TestWeiToHumanReadableTruncates(t *testing.T) {
	// 1.23456789 ETH keeps four decimals, truncated rather than rounded.
	wei := uint256.NewInt(1_234_567_890_000_000_000)
	assert.Equal(t, "1.2345 ETH", WeiToHumanReadable(wei))
}

func TestWeiToHumanReadableNil(t *testing.T) {
	assert.Equal(t, "0 ETH", WeiToHumanReadable(nil))
}
