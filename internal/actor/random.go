package actor

import "math/rand"

// RandomStrategy submits noise: each tick it may bid a random slice of its
// cash on a random instrument and may offer a random slice of a held
// position at a random price. It is the liquidity chaff the other
// strategies trade against.
type RandomStrategy struct {
	rng      *rand.Rand
	nextTxn  uint64
	MaxPrice int64 // cap for random sell quotes
	MaxQueue int   // stop bidding once the buy queue reports this deep
}

// NewRandomStrategy creates a random strategy from a seeded source so a
// run is reproducible given the simulation seed.
func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng, MaxPrice: 150, MaxQueue: 32}
}

func (s *RandomStrategy) txn() uint64 {
	s.nextTxn++
	return s.nextTxn
}

// Decide implements Strategy.
func (s *RandomStrategy) Decide(t Tick) []Intent {
	var intents []Intent

	if t.Wallet.Cash > 0 && len(t.Instruments) > 0 {
		instrument := t.Instruments[s.rng.Intn(len(t.Instruments))]
		// Skip the bid when the buy queue is already congested.
		if t.Depth[instrument].Buys < s.MaxQueue {
			price := s.rng.Int63n(t.Wallet.Cash) + 1
			quantity := s.rng.Int63n(3) + 1
			intents = append(intents, Intent{
				Kind:       IntentBuy,
				Instrument: instrument,
				Price:      price,
				Quantity:   quantity,
				TxnID:      s.txn(),
			})
		}
	}

	for instrument, held := range t.Wallet.Holdings {
		if held == 0 {
			continue
		}
		price := s.rng.Int63n(s.MaxPrice) + 1
		quantity := s.rng.Int63n(held) + 1
		intents = append(intents, Intent{
			Kind:       IntentSell,
			Instrument: instrument,
			Price:      price,
			Quantity:   quantity,
			TxnID:      s.txn(),
		})
	}

	return intents
}
