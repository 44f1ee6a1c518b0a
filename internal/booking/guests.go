package booking

// GuestCounter keeps a guest count inside [1, Max]. Steps past either bound
// leave the value unchanged.
type GuestCounter struct {
	Value int
	Max   int
}

func NewGuestCounter(value, maxGuests int) GuestCounter {
	if maxGuests < 1 {
		maxGuests = 1
	}
	return GuestCounter{Value: ClampGuests(value, maxGuests), Max: maxGuests}
}

func (g *GuestCounter) Increment() {
	if g.Value < g.Max {
		g.Value++
	}
}

func (g *GuestCounter) Decrement() {
	if g.Value > 1 {
		g.Value--
	}
}

func ClampGuests(n, maxGuests int) int {
	if maxGuests < 1 {
		maxGuests = 1
	}
	switch {
	case n < 1:
		return 1
	case n > maxGuests:
		return maxGuests
	default:
		return n
	}
}
