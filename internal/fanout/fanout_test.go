package fanout

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/types"
)

type FanoutTestSuite struct {
	suite.Suite

	queue *Queue[int]
}

func TestFanoutSuite(t *testing.T) {
	suite.Run(t, new(FanoutTestSuite))
}

func (suite *FanoutTestSuite) SetupTest() {
	suite.queue = NewQueue[int](logger.NewNopLogger())
}

func (suite *FanoutTestSuite) TestBroadcastToAllReaders() {
	suite.queue.Subscribe("a")
	suite.queue.Subscribe("b")

	suite.queue.Write(1)
	suite.queue.Write(2)

	suite.Equal([]int{1, 2}, suite.queue.Drain("a"))
	suite.Equal([]int{1, 2}, suite.queue.Drain("b"))
}

func (suite *FanoutTestSuite) TestLateSubscriberMissesEarlierItems() {
	suite.queue.Subscribe("a")
	suite.queue.Write(1)

	suite.queue.Subscribe("b")
	suite.queue.Write(2)

	suite.Equal([]int{1, 2}, suite.queue.Drain("a"))
	suite.Equal([]int{2}, suite.queue.Drain("b"))
}

func (suite *FanoutTestSuite) TestReadersAdvanceIndependently() {
	suite.queue.Subscribe("fast")
	suite.queue.Subscribe("slow")

	suite.queue.Write(1)
	suite.queue.Write(2)

	item, ok := suite.queue.Read("fast")
	suite.True(ok)
	suite.Equal(1, item)

	item, ok = suite.queue.Read("fast")
	suite.True(ok)
	suite.Equal(2, item)

	// The slow reader still sees everything
	suite.Equal(2, suite.queue.Len("slow"))
}

func (suite *FanoutTestSuite) TestReadNAllOrNothing() {
	suite.queue.Subscribe("a")
	suite.queue.Write(1)
	suite.queue.Write(2)

	// Asking for more than is buffered consumes nothing
	suite.Nil(suite.queue.ReadN("a", 3))
	suite.Equal(2, suite.queue.Len("a"))

	suite.Equal([]int{1, 2}, suite.queue.ReadN("a", 2))
	suite.Equal(0, suite.queue.Len("a"))
}

func (suite *FanoutTestSuite) TestReadEmpty() {
	suite.queue.Subscribe("a")

	_, ok := suite.queue.Read("a")
	suite.False(ok)
}

func (suite *FanoutTestSuite) TestDoubleSubscribeKeepsQueue() {
	suite.queue.Subscribe("a")
	suite.queue.Write(1)

	// Second subscribe is a warning and a no-op
	suite.queue.Subscribe("a")
	suite.Equal(1, suite.queue.Len("a"))
	suite.Equal(1, suite.queue.Readers())
}

func (suite *FanoutTestSuite) TestUnsubscribeAndReaderCount() {
	suite.queue.Subscribe("a")
	suite.queue.Subscribe("b")
	suite.Equal(2, suite.queue.Readers())

	suite.queue.Unsubscribe("a")
	suite.Equal(1, suite.queue.Readers())

	suite.queue.Unsubscribe("b")
	suite.Equal(0, suite.queue.Readers())
}

func (suite *FanoutTestSuite) TestUnknownSessionOperations() {
	_, ok := suite.queue.Read("ghost")
	suite.False(ok)
	suite.Nil(suite.queue.Drain("ghost"))
	suite.queue.Unsubscribe("ghost")
}

func (suite *FanoutTestSuite) TestConcurrentWritersAndReaders() {
	sessions := []types.Session{"a", "b", "c"}
	for _, s := range sessions {
		suite.queue.Subscribe(s)
	}

	const writes = 500

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 0; i < writes; i++ {
			suite.queue.Write(i)
		}
	}()

	results := make([][]int, len(sessions))

	for i, s := range sessions {
		wg.Add(1)

		go func(idx int, session types.Session) {
			defer wg.Done()

			var got []int
			for len(got) < writes {
				got = append(got, suite.queue.Drain(session)...)
			}

			results[idx] = got
		}(i, s)
	}

	wg.Wait()

	for _, got := range results {
		suite.Len(got, writes)
		// Broadcast preserves write order per reader
		for i, v := range got {
			suite.Equal(i, v)
		}
	}
}
