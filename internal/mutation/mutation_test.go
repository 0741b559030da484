package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutateSuccessLifecycle(t *testing.T) {
	m := New(func(_ context.Context, req int) (string, error) {
		return "ok", nil
	})
	assert.Equal(t, StatusIdle, m.Status())

	var callbacks []string
	res, err := m.Mutate(context.Background(), 1, &Options[string]{
		OnSuccess: func(res string) {
			callbacks = append(callbacks, "success:"+res)
			assert.True(t, m.IsSuccess())
		},
		OnSettled: func() {
			callbacks = append(callbacks, "settled")
			assert.True(t, m.IsSettled())
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, []string{"success:ok", "settled"}, callbacks)

	// The result and the settled state survive the call.
	assert.Equal(t, "ok", m.Data())
	assert.NoError(t, m.Err())
	assert.True(t, m.IsSettled())
}

func TestMutateErrorIsRecordedNotReturned(t *testing.T) {
	boom := errors.New("boom")
	m := New(func(_ context.Context, req int) (string, error) {
		return "", boom
	})

	var seen error
	res, err := m.Mutate(context.Background(), 1, &Options[string]{
		OnError: func(e error) {
			seen = e
			assert.True(t, m.IsError())
		},
	})
	// Without ThrowError the error lives in state only.
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.ErrorIs(t, seen, boom)
	assert.ErrorIs(t, m.Err(), boom)
	assert.True(t, m.IsSettled())
}

func TestMutateThrowError(t *testing.T) {
	boom := errors.New("boom")
	m := New(func(_ context.Context, req int) (string, error) {
		return "", boom
	})

	_, err := m.Mutate(context.Background(), 1, &Options[string]{ThrowError: true})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Err(), boom)
}

func TestMutateClearsPreviousState(t *testing.T) {
	fail := true
	m := New(func(_ context.Context, req int) (string, error) {
		if fail {
			return "", errors.New("first call fails")
		}
		return "second", nil
	})

	_, err := m.Mutate(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Error(t, m.Err())

	fail = false
	res, err := m.Mutate(context.Background(), 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", res)
	assert.NoError(t, m.Err())
	assert.Equal(t, "second", m.Data())
}

func TestMutateNilOptions(t *testing.T) {
	m := New(func(_ context.Context, req string) (int, error) {
		return len(req), nil
	})

	res, err := m.Mutate(context.Background(), "four", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res)
}
