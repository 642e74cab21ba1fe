package srmutex_test

import (
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"gitlab.com/slon/srmutex/gate/mock_gate"
	"gitlab.com/slon/srmutex/ownership"
	"gitlab.com/slon/srmutex/srmutex"
)

func TestMutexGateSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mock_gate.NewMockGate(ctrl)

	gomock.InOrder(
		g.EXPECT().RLock(),
		// Апгрейд: отпустить чтение, затем взять запись.
		g.EXPECT().RUnlock(),
		g.EXPECT().Lock(),
		// Даунгрейд: отпустить запись, затем снова взять чтение.
		g.EXPECT().Unlock(),
		g.EXPECT().RLock(),
		g.EXPECT().RUnlock(),
	)

	m := srmutex.New(srmutex.WithGate(g))
	m.RLock()
	m.RLock()
	m.Lock()
	m.Lock()
	m.RLock()
	m.RUnlock()
	m.Unlock()
	m.Unlock()
	m.RUnlock()
	m.RUnlock()

	require.Empty(t, m.Owners())
}

func TestMutexTryLockGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mock_gate.NewMockGate(ctrl)

	gomock.InOrder(
		g.EXPECT().TryLock().Return(false),
		g.EXPECT().TryLock().Return(true),
		g.EXPECT().Unlock(),
		g.EXPECT().RLock(),
		g.EXPECT().RUnlock(),
		g.EXPECT().TryRLock().Return(false),
	)

	m := srmutex.New(srmutex.WithGate(g))

	require.False(t, m.TryLock())
	require.Empty(t, m.Snapshot(), "failed TryLock must leave no entry")

	require.True(t, m.TryLock())
	require.True(t, m.TryLock(), "nested TryLock does not touch the gate")
	require.True(t, m.TryRLock())
	require.Equal(t, map[ownership.ID]ownership.Level{
		ownership.Current(): {Readers: 1, Writers: 2},
	}, m.Snapshot())

	m.Unlock()
	m.Unlock()
	require.True(t, m.IsRLocked())
	m.RUnlock()

	require.False(t, m.TryRLock())
	require.Empty(t, m.Snapshot())
}

func TestMutexTryLockWhileReading(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mock_gate.NewMockGate(ctrl)

	g.EXPECT().RLock()
	g.EXPECT().RUnlock()

	m := srmutex.New(srmutex.WithGate(g))
	m.RLock()
	require.False(t, m.TryLock(), "upgrade is impossible without blocking")
	require.True(t, m.IsRLocked())
	m.RUnlock()
}

func TestMutexTableShrinks(t *testing.T) {
	m := srmutex.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				srmutex.WithRLock(m, func() {})
				return
			}
			srmutex.WithLock(m, func() {
				srmutex.WithRLock(m, func() {})
			})
		}()
	}
	wg.Wait()

	require.Empty(t, m.Owners())
}

func TestMutexInstancesAreIndependent(t *testing.T) {
	a, b := srmutex.New(), srmutex.New()

	a.Lock()
	defer a.Unlock()

	ok := make(chan bool)
	go func() {
		got := b.TryLock()
		if got {
			b.Unlock()
		}
		ok <- got
	}()
	require.True(t, <-ok)
	require.False(t, b.IsLocked())
}

func TestMutexSnapshotWhileReadersNest(t *testing.T) {
	m := srmutex.New()
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			m.RLock()
			m.RLock()
			m.RUnlock()
			m.RUnlock()
		}
	}()

	for i := 0; i < 1000; i++ {
		for _, l := range m.Snapshot() {
			require.Zero(t, l.Writers)
			require.LessOrEqual(t, l.Readers, uint32(2))
		}
	}
	close(stop)
	<-done
	require.Empty(t, m.Snapshot())
}
