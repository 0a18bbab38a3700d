package history

import "fmt"

// Key layout:
//
//	run:{ts_ns, 20 digits}:{id}  → msgpack-encoded workload.Report
//	rid:{id}                     → run key (reverse index)
//
// Zero-padded timestamps keep lexicographic order equal to chronological
// order; the id suffix keeps concurrent runs apart.

var reportPrefix = []byte("run:")

func reportKey(ts int64, id string) []byte {
	return fmt.Appendf(nil, "run:%020d:%s", ts, id)
}

func idKey(id string) []byte {
	return []byte("rid:" + id)
}
