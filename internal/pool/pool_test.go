package pool

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerClients_GetIsStablePerWorker(t *testing.T) {
	var built int64
	clients := NewWorkerClients(func() *http.Client {
		atomic.AddInt64(&built, 1)
		return &http.Client{}
	})

	first := clients.Get(0)
	if again := clients.Get(0); again != first {
		t.Fatal("expected the same client for the same worker")
	}
	other := clients.Get(1)
	if other == first {
		t.Fatal("expected workers to own distinct clients")
	}
	if built != 2 {
		t.Errorf("expected 2 clients built, got %d", built)
	}
	if clients.Len() != 2 {
		t.Errorf("Len() = %d, want 2", clients.Len())
	}
}

func TestWorkerClients_ConcurrentWorkers(t *testing.T) {
	clients := NewWorkerClients(func() *http.Client { return &http.Client{} })

	const workers = 16
	got := make([]*http.Client, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c := clients.Get(i)
				if got[i] != nil && got[i] != c {
					t.Errorf("worker %d saw a different client", i)
				}
				got[i] = c
			}
		}(i)
	}
	wg.Wait()

	seen := map[*http.Client]bool{}
	for i, c := range got {
		if seen[c] {
			t.Fatalf("worker %d shares a client", i)
		}
		seen[c] = true
	}
}

func TestWorkerClients_Close(t *testing.T) {
	clients := NewWorkerClients(nil)
	clients.Get(0)
	clients.Get(1)

	clients.Close()
	if clients.Len() != 0 {
		t.Fatalf("Len() after Close = %d, want 0", clients.Len())
	}
	if clients.Get(0) == nil {
		t.Fatal("expected a new client after Close")
	}
}
