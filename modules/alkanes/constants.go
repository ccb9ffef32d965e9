package alkanes

const (
	Version   = "v0.1.0"
	DBVersion = 1
)

// dbVersionKey lives outside the `/alkanes` namespace so no contract call can reach it.
var dbVersionKey = []byte("/indexer/dbversion")
