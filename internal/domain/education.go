package domain

type DegreeLevel int

const (
	DegreeUnknown DegreeLevel = iota
	DegreeBachelor
	DegreeMaster
	DegreeDoctorate
	DegreeOther
)

func (d DegreeLevel) String() string {
	switch d {
	case DegreeBachelor:
		return "Bachelor"
	case DegreeMaster:
		return "Master"
	case DegreeDoctorate:
		return "Doctorate"
	case DegreeOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// EducationEntry is one parsed education block. Year is 0 when no graduation
// year could be extracted. Entries keep the order they appeared on the page;
// most recent typically first, but the source does not guarantee it.
type EducationEntry struct {
	Level         DegreeLevel
	FieldOrSchool string
	Year          int
}
