package job

import (
	"hash/fnv"
	"strconv"
)

// ShardLabel buckets an index name into one of 32 labels so per-index metrics
// keep a bounded cardinality.
func ShardLabel(index string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(index))
	return strconv.FormatUint(uint64(h.Sum32()%32), 10)
}
