package constants

const (
	MinorPerUnit  = 100
	MinorExponent = 2

	// MaxAmount bounds any single amount or balance in minor units.
	MaxAmount = int64(1e15)
)

const (
	AccountNumberLen = 11
	MinLastNameLen   = 2
	MaxNameLen       = 100
)

const (
	OpeningBalanceMemo = "Solde initial"
	CorrectionMemo     = "Correction administrative"
	CompensationMemo   = "Annulation virement"
)

// Local cache keys, one snapshot per collection.
const (
	CacheKeyClients      = "egabank_clients"
	CacheKeyAccounts     = "egabank_comptes"
	CacheKeyTransactions = "egabank_transactions"
	CacheKeyTombstones   = "egabank_tombstones"
)
