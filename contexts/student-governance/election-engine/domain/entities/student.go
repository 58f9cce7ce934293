package entities

// MinimumMeanScore is the academic threshold for candidacy and party seats.
const MinimumMeanScore = 60.0

type Student struct {
	StudentID          string
	RegistrationNumber string
	Name               string
	SchoolID           string
	DepartmentID       string
	MeanScore          float64
}

func (s Student) Eligible() bool {
	return s.MeanScore >= MinimumMeanScore
}

func (s Student) Department() DepartmentKey {
	return DepartmentKey{SchoolID: s.SchoolID, DepartmentID: s.DepartmentID}
}

// DepartmentKey identifies a delegate constituency.
type DepartmentKey struct {
	SchoolID     string
	DepartmentID string
}

func (k DepartmentKey) Less(other DepartmentKey) bool {
	if k.SchoolID != other.SchoolID {
		return k.SchoolID < other.SchoolID
	}
	return k.DepartmentID < other.DepartmentID
}
