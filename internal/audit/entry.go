package audit

// Entry is one line in the hash-chained JSONL decision log. All fields
// are structs and scalars (no map[string]any) so json.Marshal field
// order is deterministic and hashes are reproducible.
//
// Privacy: only the registrable domain and vocabulary signal codes are
// recorded — never URLs, paths, or raw parameter values.
type Entry struct {
	Timestamp  string   `json:"ts"`
	Domain     string   `json:"domain"`
	Level      string   `json:"level"`
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	State      string   `json:"state"`
	Reasons    []string `json:"reasons"`
	PrevHash   string   `json:"prev_hash"`
}
