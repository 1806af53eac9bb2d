package main

import "time"

type Timer struct {
	start time.Time
}

func makeTimer() Timer {
	return Timer{start: time.Now()}
}

// Returns the seconds since the last tick and starts a new interval
func (t *Timer) tick() float64 {
	now := time.Now()
	elapsed := now.Sub(t.start).Seconds()
	t.start = now
	return elapsed
}

// Exponential moving average so the overlay numbers aren't super spazzy
func smooth(avg, sample float64) float64 {
	return avg*0.9 + sample*0.1
}
