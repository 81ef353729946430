package extract

// PatientRecord represents one tab-delimited patient row
type PatientRecord struct {
	RequestDate  string `json:"request_date"`  // MM/DD/YYYY or empty when unparsable
	InternalID   string `json:"internal_id"`   // digits only, empty means new patient
	DateOfBirth  string `json:"date_of_birth"` // MM/DD/YYYY or empty when unparsable
	PatientName  string `json:"patient_name"`
	OldPhysician string `json:"old_physician"`
	MemberID     string `json:"member_id"`
	Phone        string `json:"phone"`
}

// NoteChangeInfo holds the fields resolved from a single note line.
// Any field may be empty when it could not be resolved.
type NoteChangeInfo struct {
	NewPhysician    string `json:"new_physician"`
	EffectiveDate   string `json:"effective_date"`
	ReferenceNumber string `json:"reference_number"`
	AgentName       string `json:"agent_name"`
}

// Pairing attaches a raw note line to the patient record at the same position
type Pairing struct {
	Patient PatientRecord `json:"patient"`
	Note    string        `json:"note"`
}

// SplitResult is the output of the line classifier
type SplitResult struct {
	Notes    []string        `json:"notes"`
	Patients []PatientRecord `json:"patients"`

	// SkippedLines counts lines that looked like patient rows but could not be parsed.
	SkippedLines int `json:"skipped_lines"`
}
