package badger

import "fmt"

// Key prefixes for stored data types
const (
	checkpointPrefix = "chkpt"
)

// makeCheckpointKey generates the key for one (archive, model) lane.
// The archive number is zero-padded so a prefix scan lists lanes in
// archive order.
func makeCheckpointKey(archive int, model string) []byte {
	return []byte(fmt.Sprintf("%s:%04d:%s", checkpointPrefix, archive, model))
}

// checkpointScanPrefix is the prefix covering all checkpoint keys.
func checkpointScanPrefix() []byte {
	return []byte(checkpointPrefix + ":")
}
