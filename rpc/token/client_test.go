package token

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type stubInvoker struct {
	item stackitem.Item
}

func (i stubInvoker) Call(_ util.Uint160, _ string, _ ...any) (*result.Invoke, error) {
	return &result.Invoke{State: "HALT", Stack: []stackitem.Item{i.item}}, nil
}

func TestLockboxReader(t *testing.T) {
	t.Run("not set", func(t *testing.T) {
		c := NewReader(stubInvoker{stackitem.Null{}}, util.Uint160{})

		_, err := c.Lockbox()
		require.ErrorIs(t, err, ErrLockboxNotSet)
	})

	t.Run("set", func(t *testing.T) {
		lockbox := util.Uint160{1, 2, 3}
		c := NewReader(stubInvoker{stackitem.NewBuffer(lockbox.BytesBE())}, util.Uint160{})

		got, err := c.Lockbox()
		require.NoError(t, err)
		require.Equal(t, lockbox, got)
	})
}
