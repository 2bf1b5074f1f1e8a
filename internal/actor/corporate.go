package actor

// CorporateStrategy models the issuer: it starts the run holding inventory
// and drips it onto the market at a fixed offer price, a chunk per tick,
// until the inventory is gone. It never buys.
type CorporateStrategy struct {
	Instrument int
	Offer      int64
	ChunkSize  int64

	nextTxn uint64
}

// NewCorporateStrategy creates an issuer for one instrument.
func NewCorporateStrategy(instrument int, offer, chunkSize int64) *CorporateStrategy {
	return &CorporateStrategy{
		Instrument: instrument,
		Offer:      offer,
		ChunkSize:  chunkSize,
	}
}

func (s *CorporateStrategy) txn() uint64 {
	s.nextTxn++
	return s.nextTxn
}

// Decide implements Strategy.
func (s *CorporateStrategy) Decide(t Tick) []Intent {
	held := t.Wallet.Holdings[s.Instrument]
	if held == 0 {
		return nil
	}
	quantity := s.ChunkSize
	if held < quantity {
		quantity = held
	}
	return []Intent{{
		Kind:       IntentSell,
		Instrument: s.Instrument,
		Price:      s.Offer,
		Quantity:   quantity,
		TxnID:      s.txn(),
	}}
}
