package models

import "encoding/json"

// Student is one pupil on the roster. ID doubles as the barcode payload.
type Student struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ClassGroup string        `json:"classGroup"`
	Subjects   []SubjectData `json:"subjects"`
}

// Subject returns the index of the named subject, or -1.
func (s *Student) Subject(name string) int {
	for i := range s.Subjects {
		if s.Subjects[i].SubjectName == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	out := s
	out.Subjects = make([]SubjectData, len(s.Subjects))
	for i, sd := range s.Subjects {
		out.Subjects[i] = sd.Clone()
	}
	return out
}

// CloneStudents deep copies a slice of students.
func CloneStudents(in []Student) []Student {
	out := make([]Student, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// SubjectData holds everything recorded for one student in one subject.
type SubjectData struct {
	SubjectName     string             `json:"subjectName"`
	Attendance      []AttendanceRecord `json:"attendance"`
	Grades          []Grade            `json:"grades"`
	BehaviorHistory []BehaviorRecord   `json:"behaviorHistory"`
}

// BehaviorScore is the latest behavior history entry, or 0 with no history.
func (sd SubjectData) BehaviorScore() float64 {
	if n := len(sd.BehaviorHistory); n > 0 {
		return sd.BehaviorHistory[n-1].Score
	}
	return 0
}

// Clone returns a deep copy.
func (sd SubjectData) Clone() SubjectData {
	out := SubjectData{SubjectName: sd.SubjectName}
	out.Attendance = append(make([]AttendanceRecord, 0, len(sd.Attendance)), sd.Attendance...)
	out.Grades = append(make([]Grade, 0, len(sd.Grades)), sd.Grades...)
	out.BehaviorHistory = append(make([]BehaviorRecord, 0, len(sd.BehaviorHistory)), sd.BehaviorHistory...)
	return out
}

type subjectDataJSON struct {
	SubjectName     string             `json:"subjectName"`
	Attendance      []AttendanceRecord `json:"attendance"`
	Grades          []Grade            `json:"grades"`
	BehaviorHistory []BehaviorRecord   `json:"behaviorHistory"`
	BehaviorScore   float64            `json:"behaviorScore"`
}

// MarshalJSON writes behaviorScore alongside the history so existing snapshot
// readers keep working.
func (sd SubjectData) MarshalJSON() ([]byte, error) {
	return json.Marshal(subjectDataJSON{
		SubjectName:     sd.SubjectName,
		Attendance:      nonNil(sd.Attendance),
		Grades:          nonNil(sd.Grades),
		BehaviorHistory: nonNil(sd.BehaviorHistory),
		BehaviorScore:   sd.BehaviorScore(),
	})
}

// UnmarshalJSON drops any stored behaviorScore; it is always re-derived from
// the history.
func (sd *SubjectData) UnmarshalJSON(data []byte) error {
	var raw subjectDataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*sd = SubjectData{
		SubjectName:     raw.SubjectName,
		Attendance:      raw.Attendance,
		Grades:          raw.Grades,
		BehaviorHistory: raw.BehaviorHistory,
	}
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
