package actor

// ScriptedStrategy plays a fixed script: one opening buy, then from the
// midpoint of the run a standing fire-sale of everything it holds, with
// the asking price stepped down each tick. The stale standing order is
// revoked and replaced rather than left to rot on the book.
type ScriptedStrategy struct {
	Instrument int
	OpenBid    int64 // price for the opening buy
	OpenQty    int64
	FloorPrice int64 // fire-sale never goes below this

	nextTxn   uint64
	opened    bool
	standing  map[int]uint64 // instrument → txn id of live fire-sale order
	lastOffer int64
}

// NewScriptedStrategy creates the script with its opening terms.
func NewScriptedStrategy(instrument int, openBid, openQty int64) *ScriptedStrategy {
	return &ScriptedStrategy{
		Instrument: instrument,
		OpenBid:    openBid,
		OpenQty:    openQty,
		FloorPrice: 1,
		standing:   make(map[int]uint64),
	}
}

func (s *ScriptedStrategy) txn() uint64 {
	s.nextTxn++
	return s.nextTxn
}

// Decide implements Strategy.
func (s *ScriptedStrategy) Decide(t Tick) []Intent {
	var intents []Intent

	if !s.opened {
		s.opened = true
		if t.Wallet.Cash >= s.OpenBid {
			intents = append(intents, Intent{
				Kind:       IntentBuy,
				Instrument: s.Instrument,
				Price:      s.OpenBid,
				Quantity:   s.OpenQty,
				TxnID:      s.txn(),
			})
		}
		return intents
	}

	// Hold until the midpoint, then start unloading.
	if t.Horizon == 0 || t.Now < t.Horizon/2 {
		return nil
	}

	offer := s.fireSalePrice(t.Now, t.Horizon)
	for instrument, quantity := range t.Wallet.Holdings {
		if quantity == 0 {
			continue
		}
		if txn, ok := s.standing[instrument]; ok {
			if offer == s.lastOffer {
				continue
			}
			intents = append(intents, Intent{Kind: IntentRevoke, Instrument: instrument, TxnID: txn})
		}
		id := s.txn()
		s.standing[instrument] = id
		intents = append(intents, Intent{
			Kind:       IntentSell,
			Instrument: instrument,
			Price:      offer,
			Quantity:   quantity,
			TxnID:      id,
		})
	}
	s.lastOffer = offer
	return intents
}

// fireSalePrice walks the offer down linearly from the opening bid to the
// floor as the deadline approaches.
func (s *ScriptedStrategy) fireSalePrice(now, horizon int64) int64 {
	half := horizon / 2
	if now <= half || horizon == half {
		return s.OpenBid
	}
	remaining := horizon - now
	span := horizon - half
	offer := s.FloorPrice + (s.OpenBid-s.FloorPrice)*remaining/span
	if offer < s.FloorPrice {
		offer = s.FloorPrice
	}
	return offer
}
