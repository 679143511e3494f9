package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectDataBehaviorScoreIsDerivedOnLoad(t *testing.T) {
	blob := `[{"id":"1001","name":"Budi Santoso","classGroup":"7-A","subjects":[{
		"subjectName":"Matematika",
		"attendance":[{"date":"2023-10-01","status":"H"}],
		"grades":[],
		"behaviorHistory":[{"date":"2023-10-01","score":85},{"date":"2023-11-01","score":70}],
		"behaviorScore":99}]}]`

	var students []Student
	require.NoError(t, json.Unmarshal([]byte(blob), &students))
	require.Len(t, students, 1)
	assert.Equal(t, 70.0, students[0].Subjects[0].BehaviorScore())

	out, err := json.Marshal(students[0].Subjects[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"behaviorScore":70`)
	assert.Contains(t, string(out), `"grades":[]`)
}

func TestBehaviorScoreWithoutHistory(t *testing.T) {
	assert.Equal(t, 0.0, SubjectData{}.BehaviorScore())
}

func TestStudentCloneIsDeep(t *testing.T) {
	s := Student{ID: "1", Subjects: []SubjectData{{
		SubjectName: "IPA",
		Grades:      []Grade{{Title: "T1", Score: 70}},
	}}}
	c := s.Clone()
	c.Subjects[0].Grades[0].Score = 10
	c.Subjects[0].SubjectName = "IPS"

	assert.Equal(t, 70.0, s.Subjects[0].Grades[0].Score)
	assert.Equal(t, "IPA", s.Subjects[0].SubjectName)
}

func TestStudentFilterNormalize(t *testing.T) {
	f := StudentFilter{SubjectName: "IPA"}.Normalize()
	assert.Equal(t, FilterAll, f.ClassGroup)
	assert.Equal(t, "IPA", f.SubjectName)
}
