package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStudents(t *testing.T) {
	students, err := ReadStudents(strings.NewReader(`
students:
  - id: s1
    registration_number: REG-001
    name: Amina Odhiambo
    school_id: sch-eng
    department_id: dep-civil
    mean_score: 72.5
  - id: " s2 "
    registration_number: REG-002
    school_id: sch-eng
    department_id: dep-civil
    mean_score: 58
`))
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "s1", students[0].StudentID)
	assert.Equal(t, "Amina Odhiambo", students[0].Name)
	assert.True(t, students[0].Eligible())
	assert.Equal(t, "s2", students[1].StudentID)
	assert.False(t, students[1].Eligible())
}

func TestReadStudentsRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"missing department": `
students:
  - id: s1
    registration_number: REG-001
    school_id: sch-eng
`,
		"duplicate id": `
students:
  - {id: s1, registration_number: REG-001, school_id: a, department_id: b, mean_score: 70}
  - {id: s1, registration_number: REG-002, school_id: a, department_id: b, mean_score: 70}
`,
		"duplicate registration": `
students:
  - {id: s1, registration_number: REG-001, school_id: a, department_id: b, mean_score: 70}
  - {id: s2, registration_number: REG-001, school_id: a, department_id: b, mean_score: 70}
`,
		"score out of range": `
students:
  - {id: s1, registration_number: REG-001, school_id: a, department_id: b, mean_score: 140}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStudents(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestReadStudentsEmptyDocument(t *testing.T) {
	students, err := ReadStudents(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, students)
}
