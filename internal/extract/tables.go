package extract

// physicianAlias maps a surname key found in note text to the display name
// printed on the form.
type physicianAlias struct {
	Key     string
	Display string
}

// physicianTable is searched in declaration order and the first key contained
// in the uppercased note wins, so short keys like NAT or PARK can shadow later
// entries. Do not sort.
var physicianTable = []physicianAlias{
	{"DE SILVA", "Janesri De Silva M.D."},
	{"ARASTU", "Dr. Arastu"},
	{"JUAREZ MORALES", "Juarez Morales M.D."},
	{"JUAREZ", "Juarez Morales M.D."},
	{"RODRIGUEZ", "Barbara Rodriguez M.D."},
	{"BHATT", "Brian Bhatt M.D."},
	{"MINASSIAN", "Guiragos S. Minassian M.D."},
	{"BENJAMIN", "Hilma R. Benjamin M.D."},
	{"WOODS", "Marianne R. Woods M.D."},
	{"SNYDER", "Mark Snyder M.D."},
	{"FINEBERG", "Martin Fineberg M.D."},
	{"BALA", "Padma Bala M.D."},
	{"SHELAT", "Palak Shelat M.D."},
	{"KEYNIGSHTEYN", "Rena Keynigshteyn M.D."},
	{"MILLET", "Victoria E. Millet M.D."},
	{"PARK", "Esther S. Park M.D."},
	{"NAT", "Narindar K. Nat M.D."},
	{"ZUNIGA", "Jocelyn C. Zuniga M.D."},
	{"TAMASHIRO", "Victor G. Tamashiro M.D."},
	{"BARBOUR", "Rachel Barbour M.D."},
	{"ALTMAN", "Adrienne C. Altman M.D."},
	{"UNGS", "Carolina M. Ungs M.D."},
	{"BEHROOZAN", "Benjamin Behroozan M.D."},
}

// triggerPhrases mark a line as describing a PCP change. Matched against the
// uppercased line.
var triggerPhrases = []string{
	"PCP CHANGE TO",
	"PCP WAS MADE TO",
	"PCP WAS CHANGE TO",
	"PCP CHANGE WAS MADE TO",
	"CHANGE TO DR",
	"DR DE SILVA",
	"DR. DE SILVA",
	"DR BEHROOZAN",
	"DR. BEHROOZAN",
	"DR JUAREZ",
	"DR. JUAREZ",
	"TRANSFER WAS MADE",
	"TRANSFER WAS DONE",
}

// timestampMarkers are the literal AM/PM prompt markers a note line must carry
var timestampMarkers = []string{"PM >", "AM >", "PM>", "AM>"}

// staffNames are internal users whose names show up in pasted chatter. Matched
// case-sensitively.
var staffNames = []string{"Eresh", "Noah", "Nisitha", "Vihanga", "Anchana"}

// dateTerminators are agent first names that commonly follow a bare effective
// date at the end of a note.
var dateTerminators = []string{
	"LINDA", "SHEILA", "CIANNA", "VANESSA", "ROXY", "MASIMBA", "ANDREA", "KARINA",
}

// PhysicianDisplayNames returns the display names in table order
func PhysicianDisplayNames() []string {
	names := make([]string, 0, len(physicianTable))
	seen := make(map[string]bool, len(physicianTable))
	for _, p := range physicianTable {
		if seen[p.Display] {
			continue
		}
		seen[p.Display] = true
		names = append(names, p.Display)
	}
	return names
}
