// Package seed reads the student eligibility register from YAML.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"

	"gopkg.in/yaml.v3"
)

type studentRecord struct {
	ID                 string  `yaml:"id"`
	RegistrationNumber string  `yaml:"registration_number"`
	Name               string  `yaml:"name"`
	SchoolID           string  `yaml:"school_id"`
	DepartmentID       string  `yaml:"department_id"`
	MeanScore          float64 `yaml:"mean_score"`
}

type register struct {
	Students []studentRecord `yaml:"students"`
}

// ReadStudents decodes a register document of the form
//
//	students:
//	  - id: s1
//	    registration_number: REG-001
//	    school_id: sch-1
//	    department_id: dep-1
//	    mean_score: 72.5
func ReadStudents(r io.Reader) ([]entities.Student, error) {
	var doc register
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode student register: %w", err)
	}

	seenIDs := make(map[string]struct{}, len(doc.Students))
	seenRegs := make(map[string]struct{}, len(doc.Students))
	students := make([]entities.Student, 0, len(doc.Students))
	for i, record := range doc.Students {
		student := entities.Student{
			StudentID:          strings.TrimSpace(record.ID),
			RegistrationNumber: strings.TrimSpace(record.RegistrationNumber),
			Name:               strings.TrimSpace(record.Name),
			SchoolID:           strings.TrimSpace(record.SchoolID),
			DepartmentID:       strings.TrimSpace(record.DepartmentID),
			MeanScore:          record.MeanScore,
		}
		if student.StudentID == "" || student.RegistrationNumber == "" || student.SchoolID == "" || student.DepartmentID == "" {
			return nil, fmt.Errorf("student register entry %d: id, registration_number, school_id and department_id are required", i)
		}
		if student.MeanScore < 0 || student.MeanScore > 100 {
			return nil, fmt.Errorf("student register entry %d: mean_score %.2f out of range", i, student.MeanScore)
		}
		if _, dup := seenIDs[student.StudentID]; dup {
			return nil, fmt.Errorf("student register entry %d: duplicate id %q", i, student.StudentID)
		}
		if _, dup := seenRegs[student.RegistrationNumber]; dup {
			return nil, fmt.Errorf("student register entry %d: duplicate registration number %q", i, student.RegistrationNumber)
		}
		seenIDs[student.StudentID] = struct{}{}
		seenRegs[student.RegistrationNumber] = struct{}{}
		students = append(students, student)
	}
	return students, nil
}

func ReadStudentsFile(path string) ([]entities.Student, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open student register: %w", err)
	}
	defer file.Close()
	return ReadStudents(file)
}
