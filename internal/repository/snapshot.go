package repository

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/eduscan-api/internal/models"
)

func encodeSnapshot(students []models.Student) ([]byte, error) {
	if students == nil {
		students = []models.Student{}
	}
	payload, err := json.Marshal(students)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, nil
}

func decodeSnapshot(payload []byte) ([]models.Student, error) {
	var students []models.Student
	if err := json.Unmarshal(payload, &students); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}
