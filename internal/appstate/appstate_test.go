package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAlertNotifiesSubscribers(t *testing.T) {
	s := New()

	var got []State
	s.Subscribe(func(st State) { got = append(got, st) })

	s.SetAlert(Alert{Message: "out of range", Kind: AlertError})
	s.SetLoading(true)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].Alert)
	assert.Equal(t, "out of range", got[0].Alert.Message)
	assert.Equal(t, AlertError, got[0].Alert.Kind)
	assert.True(t, got[1].Loading)
}

func TestSubscribersRunInOrder(t *testing.T) {
	s := New()

	var order []int
	s.Subscribe(func(State) { order = append(order, 1) })
	s.Subscribe(func(State) { order = append(order, 2) })

	s.SetLoading(true)
	assert.Equal(t, []int{1, 2}, order)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New()

	calls := 0
	cancel := s.Subscribe(func(State) { calls++ })

	s.SetLoading(true)
	cancel()
	s.SetLoading(false)

	assert.Equal(t, 1, calls)
}

func TestClearAlert(t *testing.T) {
	s := New()
	s.SetAlert(Alert{Message: "x", Kind: AlertInfo})
	s.ClearAlert()
	assert.Nil(t, s.Current().Alert)
}

func TestListenerMayMutateStore(t *testing.T) {
	s := New()

	cleared := false
	s.Subscribe(func(st State) {
		if st.Alert != nil && !cleared {
			cleared = true
			s.ClearAlert()
		}
	})

	s.SetAlert(Alert{Message: "once", Kind: AlertWarning})
	assert.Nil(t, s.Current().Alert)
}
