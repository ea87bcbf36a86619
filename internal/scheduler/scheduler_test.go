package scheduler

import "testing"

func TestScheduleFiresInOrder(t *testing.T) {
	s := New()
	var order []string

	s.RegisterEvent(TimerTIMAIncrement, func() { order = append(order, "tima") })
	s.RegisterEvent(PPUModeTransition, func() { order = append(order, "ppu") })
	s.RegisterEvent(DMAStart, func() { order = append(order, "dma") })

	s.ScheduleEvent(PPUModeTransition, 10)
	s.ScheduleEvent(TimerTIMAIncrement, 4)
	s.ScheduleEvent(DMAStart, 20)

	s.Tick(25)

	want := []string{"tima", "ppu", "dma"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestRescheduleReplaces(t *testing.T) {
	s := New()
	fires := 0
	s.RegisterEvent(TimerTIMAIncrement, func() { fires++ })

	s.ScheduleEvent(TimerTIMAIncrement, 100)
	s.ScheduleEvent(TimerTIMAIncrement, 5) // replaces the pending one

	s.Tick(5)
	if fires != 1 {
		t.Fatalf("expected 1 fire at cycle 5, got %d", fires)
	}
	s.Tick(100)
	if fires != 1 {
		t.Fatalf("expected no further fire, got %d", fires)
	}
}

func TestDescheduleEvent(t *testing.T) {
	s := New()
	fires := 0
	s.RegisterEvent(TimerTIMAIncrement, func() { fires++ })
	s.ScheduleEvent(TimerTIMAIncrement, 5)
	s.DescheduleEvent(TimerTIMAIncrement)
	s.Tick(10)
	if fires != 0 {
		t.Fatalf("expected descheduled event not to fire, got %d fires", fires)
	}
}

func TestPending(t *testing.T) {
	s := New()
	s.RegisterEvent(DMAStart, func() {})
	if s.Pending(DMAStart) {
		t.Fatal("expected not pending before scheduling")
	}
	s.ScheduleEvent(DMAStart, 5)
	if !s.Pending(DMAStart) {
		t.Fatal("expected pending after scheduling")
	}
	s.Tick(5)
	if s.Pending(DMAStart) {
		t.Fatal("expected not pending after firing")
	}
}

func TestSkipJumpsToNextEvent(t *testing.T) {
	s := New()
	fired := false
	s.RegisterEvent(TimerTIMAIncrement, func() { fired = true })
	s.ScheduleEvent(TimerTIMAIncrement, 1000)
	s.Skip()
	if !fired {
		t.Fatal("expected Skip to fire the pending event")
	}
	if s.Cycle() != 1000 {
		t.Fatalf("expected cycle 1000, got %d", s.Cycle())
	}
}
