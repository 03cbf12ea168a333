package requests

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTopicRegistry_ClaimReleaseCycle(t *testing.T) {
	reg := NewTopicRegistry()

	if !reg.Claim("staff_notes:h1") {
		t.Fatalf("first claim should succeed")
	}
	if reg.Claim("staff_notes:h1") {
		t.Fatalf("second claim of a held topic should fail")
	}
	if !reg.Held("staff_notes:h1") {
		t.Fatalf("topic should be held")
	}
	// Other topics are independent.
	if !reg.Claim("staff_notes:h2") {
		t.Fatalf("independent topic should be claimable")
	}

	reg.Release("staff_notes:h1")
	if reg.Held("staff_notes:h1") {
		t.Fatalf("topic should be free after release")
	}
	if !reg.Claim("staff_notes:h1") {
		t.Fatalf("reclaim after release should succeed")
	}
}

func TestTopicRegistry_ReleaseUnclaimedIsNoop(t *testing.T) {
	reg := NewTopicRegistry()
	reg.Release("staff_notes:h1") // must not panic
	if !reg.Claim("staff_notes:h1") {
		t.Fatalf("claim after spurious release should succeed")
	}
}

func TestTopicRegistry_ConcurrentClaimSingleWinner(t *testing.T) {
	reg := NewTopicRegistry()

	const goroutines = 32
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if reg.Claim("staff_notes:h1") {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}
