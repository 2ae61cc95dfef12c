package validators

import (
	"testing"

	dto "task-assignment.com/task-assignment/internal/data_models"
)

func TestValidateCreateUserRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateUserRequest
		wantErr bool
	}{
		{"valid", dto.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "pw"}, false},
		{"missing name", dto.CreateUserRequest{Email: "ana@example.com", Password: "pw"}, true},
		{"bad email", dto.CreateUserRequest{Name: "Ana", Email: "not-an-email", Password: "pw"}, true},
		{"missing password", dto.CreateUserRequest{Name: "Ana", Email: "ana@example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateUserRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	if id, err := ParseOptionalID("all"); err != nil || id != nil {
		t.Errorf("all: expected no filter, got %v %v", id, err)
	}
	if id, err := ParseOptionalID(" 7 "); err != nil || id == nil || *id != 7 {
		t.Errorf("7: got %v %v", id, err)
	}
	if _, err := ParseOptionalID("-3"); err == nil {
		t.Error("negative id should fail")
	}
	if _, err := ParseID("0"); err == nil {
		t.Error("zero id should fail")
	}
}
