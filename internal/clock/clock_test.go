package clock

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	t.Run("returns current time in UTC", func(t *testing.T) {
		before := time.Now()
		actual := clock.Now()
		after := time.Now()

		if actual.Before(before.Add(-time.Second)) || actual.After(after.Add(time.Second)) {
			t.Errorf("RealClock.Now() returned time outside expected range: got %v", actual)
		}
		if actual.Location() != time.UTC {
			t.Errorf("RealClock.Now() location = %v, want UTC", actual.Location())
		}
	})

	t.Run("survives a JSON round trip unchanged", func(t *testing.T) {
		actual := clock.Now()

		data, err := json.Marshal(actual)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var decoded time.Time
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}

		if actual != decoded {
			t.Errorf("round trip changed time: got %v, want %v", decoded, actual)
		}
	})
}

func TestFakeClock(t *testing.T) {
	initialTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	t.Run("returns fixed time", func(t *testing.T) {
		clock := NewFakeClock(initialTime)
		first := clock.Now()
		time.Sleep(time.Millisecond)
		second := clock.Now()

		if !first.Equal(initialTime) || !second.Equal(initialTime) {
			t.Errorf("FakeClock.Now() = %v, %v, want %v", first, second, initialTime)
		}
	})

	t.Run("set replaces the time", func(t *testing.T) {
		clock := NewFakeClock(initialTime)
		past := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		clock.Set(past)

		if got := clock.Now(); !got.Equal(past) {
			t.Errorf("After Set(), Now() = %v, want %v", got, past)
		}
	})

	t.Run("advances accumulate", func(t *testing.T) {
		clock := NewFakeClock(initialTime)
		clock.Advance(time.Hour)
		clock.Advance(30 * time.Minute)
		clock.Advance(-15 * time.Second)

		want := initialTime.Add(time.Hour + 30*time.Minute - 15*time.Second)
		if got := clock.Now(); !got.Equal(want) {
			t.Errorf("After advances, Now() = %v, want %v", got, want)
		}
	})

	t.Run("concurrent advance", func(t *testing.T) {
		clock := NewFakeClock(initialTime)

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				clock.Advance(time.Second)
				_ = clock.Now()
			}()
		}
		wg.Wait()

		if got := clock.Now(); !got.Equal(initialTime.Add(50 * time.Second)) {
			t.Errorf("Now() = %v, want %v", got, initialTime.Add(50*time.Second))
		}
	})
}
