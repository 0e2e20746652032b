package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ropeworks/ropeworks/pkg/eventbus"
)

type gearAssigned struct {
	Serial string
}

type sessionLogged struct {
	Drops int
}

func newTestBus() eventbus.EventBus {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return eventbus.NewEventPublisher(logger)
}

func TestPublish_DispatchesToMatchingSubscriber(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := newTestBus()
	var got gearAssigned
	bus.Subscribe(func(ev gearAssigned) {
		got = ev
	})

	bus.Publish(gearAssigned{Serial: "HAR-0042"})
	require.Equal(t, "HAR-0042", got.Serial)
}

func TestPublish_SkipsNonMatchingSubscriber(t *testing.T) {
	bus := newTestBus()
	called := false
	bus.Subscribe(func(ev sessionLogged) {
		called = true
	})

	bus.Publish(gearAssigned{Serial: "HAR-0042"})
	require.False(t, called)
}

func TestPublish_RecoversFromPanickingHandler(t *testing.T) {
	bus := newTestBus()
	secondCalled := false
	bus.Subscribe(func(ev gearAssigned) {
		panic("boom")
	})
	bus.Subscribe(func(ev gearAssigned) {
		secondCalled = true
	})

	require.NotPanics(t, func() {
		bus.Publish(gearAssigned{})
	})
	require.True(t, secondCalled)
}

func TestSubscribe_PanicsOnNonFunction(t *testing.T) {
	bus := newTestBus()
	require.Panics(t, func() {
		bus.Subscribe("not a function")
	})
}

func TestUnsubscribeAndClear(t *testing.T) {
	bus := newTestBus()
	handler := func(ev gearAssigned) {}
	bus.Subscribe(handler)
	require.Equal(t, 1, bus.SubscribersCount())

	bus.Unsubscribe(handler)
	require.Equal(t, 0, bus.SubscribersCount())

	bus.Subscribe(handler)
	bus.Subscribe(func(ev sessionLogged) {})
	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	cases := []struct {
		name    string
		handler interface{}
		args    []interface{}
		want    bool
	}{
		{"exact match", func(gearAssigned) {}, []interface{}{gearAssigned{}}, true},
		{"arity mismatch", func(gearAssigned) {}, []interface{}{gearAssigned{}, 1}, false},
		{"type mismatch", func(sessionLogged) {}, []interface{}{gearAssigned{}}, false},
		{"not a func", 42, []interface{}{gearAssigned{}}, false},
		{"nil arg to pointer param", func(*gearAssigned) {}, []interface{}{nil}, true},
		{"nil arg to value param", func(gearAssigned) {}, []interface{}{nil}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, eventbus.MatchSignature(tc.handler, tc.args))
		})
	}
}
