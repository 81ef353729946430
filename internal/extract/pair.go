package extract

// Pair removes exact duplicate notes and zips the remaining notes with
// patients by position. Surplus entries on either side are dropped.
func Pair(notes []string, patients []PatientRecord) []Pairing {
	unique := make([]string, 0, len(notes))
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}

	n := min(len(unique), len(patients))
	pairs := make([]Pairing, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pairing{Patient: patients[i], Note: unique[i]})
	}
	return pairs
}
