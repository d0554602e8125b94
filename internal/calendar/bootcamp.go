package calendar

import "time"

// Bootcamp runs on Monday, Tuesday and Thursday.
var bootcampShift = map[time.Weekday]int{
	time.Sunday:    1,
	time.Monday:    0,
	time.Tuesday:   0,
	time.Wednesday: 1,
	time.Thursday:  0,
	time.Friday:    3,
	time.Saturday:  2,
}

// BootcampTarget returns the first bootcamp day on or after d.
func BootcampTarget(d Date) Date {
	return d.AddDays(bootcampShift[d.Weekday()])
}

// NextTargets chains n target dates starting from today: each one is the
// first bootcamp day after the previous target.
func NextTargets(today Date, n int) []Date {
	targets := make([]Date, 0, n)
	next := today
	for i := 0; i < n; i++ {
		target := BootcampTarget(next)
		targets = append(targets, target)
		next = target.Tomorrow()
	}
	return targets
}

func IsBootcampDay(d Date) bool {
	return bootcampShift[d.Weekday()] == 0
}

// IsOneDayAfterLastSessionOfMonth reports whether the day before d was the
// last bootcamp day of its month.
func IsOneDayAfterLastSessionOfMonth(d Date) bool {
	yesterday := d.Yesterday()
	if !IsBootcampDay(yesterday) {
		return false
	}
	return BootcampTarget(yesterday.Tomorrow()).Month != yesterday.Month
}
