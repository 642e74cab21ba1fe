package ownership

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestTableLevel(t *testing.T) {
	tbl := NewTable()
	require.Equal(t, Level{}, tbl.Peek())
	require.Equal(t, 0, tbl.Len(), "Peek must not create entries")

	c, err := tbl.Counters()
	require.NoError(t, err)
	c.AddReaders(2)

	again, err := tbl.Counters()
	require.NoError(t, err)
	require.Same(t, c, again)
	require.Equal(t, Level{Readers: 2}, tbl.Peek())
	require.Equal(t, []ID{Current()}, tbl.Owners())
}

func TestTableRelease(t *testing.T) {
	tbl := NewTable()
	c, err := tbl.Counters()
	require.NoError(t, err)

	c.AddWriters(1)
	tbl.Release(c)
	require.Equal(t, 1, tbl.Len(), "entry with holds must survive Release")

	c.AddWriters(-1)
	tbl.Release(c)
	require.Equal(t, 0, tbl.Len())
	require.Empty(t, tbl.Owners())
}

func TestTablePerGoroutine(t *testing.T) {
	const n = 8
	tbl := NewTable()

	var (
		wg    sync.WaitGroup
		ready sync.WaitGroup
		stop  = make(chan struct{})
		mu    sync.Mutex
		want  = make(map[ID]Level)
	)
	wg.Add(n)
	ready.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			c, _ := tbl.Counters()
			c.AddReaders(int32(i + 1))

			mu.Lock()
			want[Current()] = c.Load()
			mu.Unlock()

			ready.Done()
			<-stop
			c.AddReaders(-int32(i + 1))
			tbl.Release(c)
		}()
	}

	ready.Wait()
	require.Empty(t, cmp.Diff(want, tbl.Snapshot()))
	require.Len(t, tbl.Owners(), n)
	require.Equal(t, Level{}, tbl.Peek())

	close(stop)
	wg.Wait()
	require.Equal(t, 0, tbl.Len())
}

func TestTableOwnersSorted(t *testing.T) {
	tbl := NewTable()
	done := make(chan struct{})
	release := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func() {
			c, _ := tbl.Counters()
			c.AddWriters(1)
			done <- struct{}{}
			<-release
			c.AddWriters(-1)
			tbl.Release(c)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	owners := tbl.Owners()
	require.Len(t, owners, 4)
	require.IsIncreasing(t, owners)

	close(release)
	for i := 0; i < 4; i++ {
		<-done
	}
}

func TestTableSnapshotWhileOwnerNests(t *testing.T) {
	tbl := NewTable()
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
			c, _ := tbl.Counters()
			c.AddReaders(1)
			c.AddWriters(1)
			c.AddWriters(-1)
			c.AddReaders(-1)
			tbl.Release(c)
		}
	}()

	for i := 0; i < 1000; i++ {
		for _, l := range tbl.Snapshot() {
			require.LessOrEqual(t, l.Readers, uint32(1))
			require.LessOrEqual(t, l.Writers, uint32(1))
		}
	}
	close(stop)
	<-done
	require.Equal(t, 0, tbl.Len())
}
