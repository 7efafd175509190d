package poker

import "fmt"

// primes maps each rank to a prime so that the product of five ranks
// identifies the rank multiset regardless of order.
var primes = [numRanks]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// straightMasks lists the ten straights from ace-high down to the wheel.
var straightMasks = func() [straightCount]uint16 {
	var masks [straightCount]uint16
	for i, high := 0, 12; high >= 4; i, high = i+1, high-1 {
		masks[i] = 0x1F << (high - 4)
	}
	masks[straightCount-1] = 0x100F // A-2-3-4-5
	return masks
}()

type rankTables struct {
	flush  [1 << numRanks]HandRank // five suited cards, keyed by rank mask
	unique [1 << numRanks]HandRank // five distinct ranks, not suited
	paired map[uint32]HandRank     // repeated ranks, keyed by prime product
}

// tables is built once at package initialisation and never written afterwards,
// so concurrent evaluations may share it freely.
var tables = buildTables()

func buildTables() *rankTables {
	t := &rankTables{paired: make(map[uint32]HandRank, fourOfAKindCount+fullHouseCount+threeOfAKindCount+twoPairCount+onePairCount)}

	next := BestHandRank
	assign := func() HandRank {
		r := next
		next++
		return r
	}

	for _, mask := range straightMasks {
		t.flush[mask] = assign()
	}

	for quad := 12; quad >= 0; quad-- {
		q := primes[quad]
		eachKickerSet(1<<quad, 1, func(kickers uint32) {
			t.paired[q*q*q*q*kickers] = assign()
		})
	}

	for trip := 12; trip >= 0; trip-- {
		for pair := 12; pair >= 0; pair-- {
			if pair == trip {
				continue
			}
			tp, pp := primes[trip], primes[pair]
			t.paired[tp*tp*tp*pp*pp] = assign()
		}
	}

	eachRankSet(func(mask uint16) {
		t.flush[mask] = assign()
	})

	for _, mask := range straightMasks {
		t.unique[mask] = assign()
	}

	for trip := 12; trip >= 0; trip-- {
		tp := primes[trip]
		eachKickerSet(1<<trip, 2, func(kickers uint32) {
			t.paired[tp*tp*tp*kickers] = assign()
		})
	}

	for high := 12; high >= 1; high-- {
		for low := high - 1; low >= 0; low-- {
			hp, lp := primes[high], primes[low]
			eachKickerSet(1<<high|1<<low, 1, func(kickers uint32) {
				t.paired[hp*hp*lp*lp*kickers] = assign()
			})
		}
	}

	for pair := 12; pair >= 0; pair-- {
		pp := primes[pair]
		eachKickerSet(1<<pair, 3, func(kickers uint32) {
			t.paired[pp*pp*kickers] = assign()
		})
	}

	eachRankSet(func(mask uint16) {
		t.unique[mask] = assign()
	})

	if next != WorstHandRank+1 {
		panic(fmt.Sprintf("poker: rank tables assigned %d strengths, want %d", next-1, WorstHandRank))
	}
	return t
}

// eachRankSet calls fn for every set of five distinct ranks that is not a
// straight, strongest first.
func eachRankSet(fn func(mask uint16)) {
	for a := 12; a >= 4; a-- {
		for b := a - 1; b >= 3; b-- {
			for c := b - 1; c >= 2; c-- {
				for d := c - 1; d >= 1; d-- {
					for e := d - 1; e >= 0; e-- {
						mask := uint16(1<<a | 1<<b | 1<<c | 1<<d | 1<<e)
						if !isStraightMask(mask) {
							fn(mask)
						}
					}
				}
			}
		}
	}
}

// eachKickerSet calls fn with the prime product of every choice of n distinct
// ranks outside exclude, strongest kickers first.
func eachKickerSet(exclude uint16, n int, fn func(product uint32)) {
	var walk func(top, left int, product uint32)
	walk = func(top, left int, product uint32) {
		if left == 0 {
			fn(product)
			return
		}
		for r := top; r >= left-1; r-- {
			if exclude&(1<<r) != 0 {
				continue
			}
			walk(r-1, left-1, product*primes[r])
		}
	}
	walk(12, n, 1)
}

func isStraightMask(mask uint16) bool {
	for _, s := range straightMasks {
		if mask == s {
			return true
		}
	}
	return false
}
