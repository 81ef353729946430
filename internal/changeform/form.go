package changeform

import (
	"fmt"
	"strings"
	"time"

	"github.com/a3tai/pcp-change-form/internal/extract"
)

// Form field names of the PCP change request template
const (
	FieldRequestDate   = "reqDate"
	FieldMemberID      = "memberID"
	FieldInternalID    = "ecwID"
	FieldMemberName    = "memberName"
	FieldDateOfBirth   = "mdob"
	FieldPhone         = "phoneNum"
	FieldOldPhysician  = "oldPCP"
	FieldNewPhysician  = "newPCP"
	FieldEffectiveDate = "effectiveDate"
	FieldAgentName     = "agentName"
	FieldReason        = "fReason"
)

// FieldNames lists every field the template must carry, in form order
var FieldNames = []string{
	FieldRequestDate, FieldMemberID, FieldInternalID, FieldMemberName,
	FieldDateOfBirth, FieldPhone, FieldOldPhysician, FieldNewPhysician,
	FieldEffectiveDate, FieldAgentName, FieldReason,
}

// Form is the set of values written into the template, keyed by field name
type Form map[string]string

// BuildForm merges a patient row and the change details of its note
func BuildForm(patient extract.PatientRecord, info extract.NoteChangeInfo, reason string) Form {
	return Form{
		FieldRequestDate:   patient.RequestDate,
		FieldMemberID:      patient.MemberID,
		FieldInternalID:    patient.InternalID,
		FieldMemberName:    patient.PatientName,
		FieldDateOfBirth:   patient.DateOfBirth,
		FieldPhone:         patient.Phone,
		FieldOldPhysician:  patient.OldPhysician,
		FieldNewPhysician:  info.NewPhysician,
		FieldEffectiveDate: info.EffectiveDate,
		FieldAgentName:     info.AgentName,
		FieldReason:        reason,
	}
}

// Problems returns the validation messages for a note, physician first.
// An empty result means a form can be generated.
func Problems(info extract.NoteChangeInfo) []string {
	var problems []string
	if info.NewPhysician == "" {
		problems = append(problems, MsgMissingPhysician)
	}
	if info.EffectiveDate == "" {
		problems = append(problems, MsgMissingDate)
	}
	return problems
}

// Validate returns a validation error for the first missing required field
func Validate(info extract.NoteChangeInfo) error {
	if problems := Problems(info); len(problems) > 0 {
		return newError(KindValidation, problems[0], nil)
	}
	return nil
}

// FilenameFor names the generated PDF after the patient and request date.
// Today's date is used when the request date is missing.
func FilenameFor(patient extract.PatientRecord, now time.Time) string {
	date := patient.RequestDate
	if date == "" {
		date = now.Format("01/02/2006")
	}
	return fmt.Sprintf("%s_%s_PCP-CHANGE-FORM_%s.pdf",
		extract.SanitizeFilename(patient.PatientName),
		patient.InternalID,
		strings.ReplaceAll(date, "/", "-"))
}
