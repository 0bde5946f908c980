package aggregation

import "hash/fnv"

// Display palette from the dashboard theme. Color assignment hashes the
// appliance ID so a device keeps its color across recomputes.
var palette = []string{
	"#3b82f6",
	"#8b5cf6",
	"#ec4899",
	"#f59e0b",
	"#10b981",
	"#06b6d4",
}

func colorFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return palette[h.Sum32()%uint32(len(palette))]
}
