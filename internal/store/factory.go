package store

type Stores struct {
	db DBTX
}

// NewStores builds stores over db. A nil db yields stores that discard writes.
func NewStores(db DBTX) *Stores {
	return &Stores{db: db}
}

func (s *Stores) LLMUsage() LLMUsageStore {
	if s.db == nil {
		return discardUsageStore{}
	}
	return newLLMUsageStore(s.db)
}
