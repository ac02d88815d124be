package quorum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajolabs/ajo-multisig/engine/quorum"
)

func TestReady(t *testing.T) {
	req := require.New(t)

	req.False(quorum.Ready(0, 3))
	req.False(quorum.Ready(2, 3))
	req.True(quorum.Ready(3, 3))
	req.True(quorum.Ready(5, 3))
}

func TestRemaining(t *testing.T) {
	req := require.New(t)

	req.Equal(3, quorum.Remaining(0, 3))
	req.Equal(1, quorum.Remaining(2, 3))
	req.Equal(0, quorum.Remaining(3, 3))
	req.Equal(0, quorum.Remaining(5, 3))
}
