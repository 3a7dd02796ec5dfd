package solar

import "time"

// Dedupe drops repeated plant names, keeping the first occurrence.
// The portals render sticky or duplicated rows within a page; the
// first row is the one the operator sees.
func Dedupe(readings []NormalizedReading) []NormalizedReading {
	seen := make(map[string]bool, len(readings))
	out := readings[:0:0]
	for _, r := range readings {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		out = append(out, r)
	}
	return out
}

// BuildBatch turns one page of raw rows into the deduplicated batch
// the store commits.
func BuildBatch(records []RawPlantRecord, profile VendorProfile, now time.Time) []NormalizedReading {
	profile = profile.withDefaults()
	readings := make([]NormalizedReading, len(records))
	for i, rec := range records {
		readings[i] = Normalize(rec, profile, now)
	}
	return Dedupe(readings)
}
