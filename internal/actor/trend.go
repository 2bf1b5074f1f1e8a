package actor

// TrendStrategy follows the tape: it watches each instrument's last
// settled price and bids just under a falling market, offers just over a
// rising one. It trades only on price moves, so a dead tape means a quiet
// actor.
type TrendStrategy struct {
	nextTxn   uint64
	lastSeen  map[int]int64 // instrument → last settled price observed
	BidShade  int64         // cents shaved off the last price when buying
	AskMarkup int64         // cents added over the last price when selling
}

// NewTrendStrategy creates a trend follower with one-cent shading.
func NewTrendStrategy() *TrendStrategy {
	return &TrendStrategy{
		lastSeen:  make(map[int]int64),
		BidShade:  1,
		AskMarkup: 1,
	}
}

func (s *TrendStrategy) txn() uint64 {
	s.nextTxn++
	return s.nextTxn
}

// Decide implements Strategy.
func (s *TrendStrategy) Decide(t Tick) []Intent {
	var intents []Intent

	for _, instrument := range t.Instruments {
		last, ok := t.History.LastPrice(instrument)
		if !ok {
			continue
		}
		previous, seen := s.lastSeen[instrument]
		s.lastSeen[instrument] = last
		if !seen || previous == last {
			continue
		}

		if last < previous {
			// Falling: pick some up under the last print.
			bid := last - s.BidShade
			if bid < 1 {
				bid = 1
			}
			if t.Wallet.Cash >= bid {
				intents = append(intents, Intent{
					Kind:       IntentBuy,
					Instrument: instrument,
					Price:      bid,
					Quantity:   1,
					TxnID:      s.txn(),
				})
			}
			continue
		}

		// Rising: offer out what we hold above the last print.
		held := t.Wallet.Holdings[instrument]
		if held == 0 {
			continue
		}
		intents = append(intents, Intent{
			Kind:       IntentSell,
			Instrument: instrument,
			Price:      last + s.AskMarkup,
			Quantity:   held,
			TxnID:      s.txn(),
		})
	}

	return intents
}
