// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestClose(t *testing.T) {
	t.Run("will do nothing if the value is not an io.Closer", func(t *testing.T) {
		var err error
		Close(&err, "not a closer")
		require.NoError(t, err)
	})

	t.Run("will do nothing if closing succeeds", func(t *testing.T) {
		var err error
		Close(&err, closerFunc(func() error {
			return nil
		}))
		require.NoError(t, err)
	})

	t.Run("will set the error if closing fails", func(t *testing.T) {
		closeErr := errors.New("close failed")

		var err error
		Close(&err, closerFunc(func() error {
			return closeErr
		}))

		var cerr CloseError
		require.ErrorAs(t, err, &cerr)
		require.ErrorIs(t, err, closeErr)
	})

	t.Run("will join the close failure onto an existing error", func(t *testing.T) {
		closeErr := errors.New("close failed")
		origErr := errors.New("original")

		err := origErr
		Close(&err, closerFunc(func() error {
			return closeErr
		}))

		require.ErrorIs(t, err, origErr)
		require.ErrorIs(t, err, closeErr)
	})
}
