package closure

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// hashPayload is the canonical form the idempotency digest is computed
// over. Field order and sorted id lists make the encoding deterministic.
type hashPayload struct {
	DateStart     string   `json:"date_start"`
	DateEnd       string   `json:"date_end"`
	ProjectIDs    []string `json:"project_ids"`
	CostCenterIDs []string `json:"cost_center_ids"`
	EngineerIDs   []string `json:"engineer_ids"`
	RecordCount   int      `json:"record_count"`
}

// FilterHash computes the deterministic digest used to recognize a repeated
// identical export: same normalized filter set plus same exported record
// count hash to the same value regardless of id list order.
func FilterHash(f ExportFilters, recordCount int) string {
	payload := hashPayload{
		DateStart:     f.DateStart,
		DateEnd:       f.DateEnd,
		ProjectIDs:    sortedCopy(f.ProjectIDs),
		CostCenterIDs: sortedCopy(f.CostCenterIDs),
		EngineerIDs:   sortedCopy(f.EngineerIDs),
		RecordCount:   recordCount,
	}

	// Struct encoding cannot fail; the error is deliberately ignored.
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func sortedCopy(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}
