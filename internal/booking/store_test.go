package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	base := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return base }
}

func TestCalendarGeneratedLazily(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))

	slots := store.AvailableSlots("rocky_001", "")
	if len(slots) != 7*3 {
		t.Fatalf("got %d slots, want 21 (7 days x 3 offers)", len(slots))
	}
	if slots[0].Date != "2025-11-03" || slots[0].Time != "10:00" {
		t.Errorf("first slot = %s %s, want 2025-11-03 10:00", slots[0].Date, slots[0].Time)
	}
	last := slots[len(slots)-1]
	if last.Date != "2025-11-09" || last.Time != "16:00" {
		t.Errorf("last slot = %s %s, want 2025-11-09 16:00", last.Date, last.Time)
	}
}

func TestAvailableSlotsDateFilter(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))
	slots := store.AvailableSlots("rocky_001", "2025-11-04")
	if len(slots) != 3 {
		t.Fatalf("got %d slots for one day, want 3", len(slots))
	}
	for _, s := range slots {
		if s.Date != "2025-11-04" {
			t.Errorf("slot date = %s, want 2025-11-04", s.Date)
		}
	}
}

func TestReserveSlotExclusivity(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))
	ctx := context.Background()

	b, err := store.Reserve(ctx, "rocky_001", "2025-11-04", "14:00", "Sarah Ahmed", "0501234567")
	if err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if b.ConfirmationID != "rocky_001_2025_11_04_14_00" {
		t.Errorf("ConfirmationID = %q", b.ConfirmationID)
	}

	if _, err := store.Reserve(ctx, "rocky_001", "2025-11-04", "14:00", "Omar", "0507654321"); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("second reserve err = %v, want ErrSlotUnavailable", err)
	}

	if store.CheckAvailability("rocky_001", "2025-11-04", "14:00") {
		t.Error("slot should be unavailable after booking")
	}
	if !store.CheckAvailability("rocky_001", "2025-11-04", "16:00") {
		t.Error("untouched slot should remain available")
	}
}

func TestReserveUnknownSlot(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))
	ctx := context.Background()

	// 11:00 is never offered
	if _, err := store.Reserve(ctx, "rocky_001", "2025-11-04", "11:00", "Sarah", "0501234567"); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
	// outside the 7-day window
	if _, err := store.Reserve(ctx, "rocky_001", "2025-12-25", "10:00", "Sarah", "0501234567"); !errors.Is(err, ErrSlotUnavailable) {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	store := NewStore(WithClock(fixedClock()))
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Reserve(ctx, "rocky_002", "2025-11-05", "10:00", "Racer", "0501112233")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrSlotUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("%d reserves succeeded, want exactly 1", success)
	}
	if got := len(store.Bookings("rocky_002")); got != 1 {
		t.Fatalf("%d bookings recorded, want 1", got)
	}
}

func TestStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	a := NewStore(WithClock(fixedClock()))
	b := NewStore(WithClock(fixedClock()))

	if _, err := a.Reserve(ctx, "rocky_001", "2025-11-03", "10:00", "Ana", "0509998877"); err != nil {
		t.Fatalf("reserve on a: %v", err)
	}
	if !b.CheckAvailability("rocky_001", "2025-11-03", "10:00") {
		t.Error("booking on store a leaked into store b")
	}
}

func TestConfirmationIDDeterministic(t *testing.T) {
	a := ConfirmationID("rocky_001", "2025-11-07", "14:00")
	b := ConfirmationID("rocky_001", "2025-11-07", "14:00")
	if a != b {
		t.Errorf("confirmation ids differ: %q vs %q", a, b)
	}
	if a != "rocky_001_2025_11_07_14_00" {
		t.Errorf("ConfirmationID = %q", a)
	}
}

func TestWithOfferHoursAndWindow(t *testing.T) {
	store := NewStore(WithClock(fixedClock()), WithWindowDays(2), WithOfferHours([]int{9}))
	slots := store.AvailableSlots("rocky_001", "")
	if len(slots) != 2 {
		t.Fatalf("got %d slots, want 2", len(slots))
	}
	if slots[0].Time != "09:00" {
		t.Errorf("slot time = %s, want 09:00", slots[0].Time)
	}
}
