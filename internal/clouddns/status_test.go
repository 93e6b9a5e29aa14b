package clouddns

import (
	"testing"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		in   string
		want State
	}{
		{"RUNNING", StateRunning},
		{"COMPLETED", StateCompleted},
		{"ERROR", StateError},
		{"running", StateRunning},
		{"  completed  ", StateCompleted},
		{"INITIALIZED", StateUnknown},
		{"", StateUnknown},
	}
	for _, tc := range cases {
		if got := ParseState(tc.in); got != tc.want {
			t.Errorf("ParseState(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestState_Terminal(t *testing.T) {
	if StateRunning.Terminal() {
		t.Error("RUNNING must not be terminal")
	}
	if StateUnknown.Terminal() {
		t.Error("UNKNOWN must not be terminal")
	}
	if !StateCompleted.Terminal() {
		t.Error("COMPLETED must be terminal")
	}
	if !StateError.Terminal() {
		t.Error("ERROR must be terminal")
	}
}

func TestDecodeStatus_Running(t *testing.T) {
	body := []byte(`{
		"jobId": "abc",
		"callbackUrl": "https://dns.example/v1.0/1234/status/abc",
		"status": "RUNNING",
		"verb": "POST",
		"requestUrl": "https://dns.example/v1.0/1234/domains"
	}`)

	st, err := decodeStatus(body)
	if err != nil {
		t.Fatalf("decodeStatus failed: %v", err)
	}
	if st.JobID != "abc" {
		t.Errorf("JobID = %q, want %q", st.JobID, "abc")
	}
	if st.State != StateRunning {
		t.Errorf("State = %q, want RUNNING", st.State)
	}
	if st.Verb != "POST" {
		t.Errorf("Verb = %q, want POST", st.Verb)
	}
	if _, ok := st.Result(); ok {
		t.Error("Result must not be readable while running")
	}
	if st.Failure() != nil {
		t.Error("Failure must be nil while running")
	}
}

func TestDecodeStatus_Completed(t *testing.T) {
	body := []byte(`{
		"jobId": "abc",
		"status": "COMPLETED",
		"response": {"domains": [{"id": 1, "name": "example.com"}]}
	}`)

	st, err := decodeStatus(body)
	if err != nil {
		t.Fatalf("decodeStatus failed: %v", err)
	}
	res, ok := st.Result()
	if !ok {
		t.Fatal("expected result payload on completed status")
	}
	if len(res) == 0 {
		t.Error("expected non-empty result payload")
	}
	if st.Failure() != nil {
		t.Error("Failure must be nil on completed status")
	}
}

func TestDecodeStatus_Error(t *testing.T) {
	body := []byte(`{
		"jobId": "abc",
		"status": "ERROR",
		"error": {
			"code": 409,
			"message": "domain exists",
			"details": "example.com is already registered",
			"validationErrors": {"messages": ["name in use"]}
		}
	}`)

	st, err := decodeStatus(body)
	if err != nil {
		t.Fatalf("decodeStatus failed: %v", err)
	}
	opErr := st.Failure()
	if opErr == nil {
		t.Fatal("expected failure payload on error status")
	}
	if opErr.Code != 409 {
		t.Errorf("Code = %d, want 409", opErr.Code)
	}
	if opErr.Message != "domain exists" {
		t.Errorf("Message = %q, want %q", opErr.Message, "domain exists")
	}
	if len(opErr.ValidationErrors.Messages) != 1 {
		t.Errorf("ValidationErrors = %v, want one message", opErr.ValidationErrors.Messages)
	}
	if _, ok := st.Result(); ok {
		t.Error("Result must not be readable on error status")
	}
}

func TestDecodeStatus_ErrorWithoutPayload(t *testing.T) {
	st, err := decodeStatus([]byte(`{"jobId": "abc", "status": "ERROR"}`))
	if err != nil {
		t.Fatalf("decodeStatus failed: %v", err)
	}
	opErr := st.Failure()
	if opErr == nil {
		t.Fatal("expected synthesized failure when the service omits the payload")
	}
	if opErr.Message == "" {
		t.Error("expected a non-empty message")
	}
}

func TestDecodeStatus_UnknownState(t *testing.T) {
	st, err := decodeStatus([]byte(`{"jobId": "abc", "status": "QUEUED"}`))
	if err != nil {
		t.Fatalf("decodeStatus failed: %v", err)
	}
	if st.State != StateUnknown {
		t.Errorf("State = %q, want UNKNOWN", st.State)
	}
	if st.State.Terminal() {
		t.Error("unknown states must be treated as still running")
	}
}

func TestDecodeStatus_MissingJobID(t *testing.T) {
	if _, err := decodeStatus([]byte(`{"status": "RUNNING"}`)); err == nil {
		t.Fatal("expected error for body without jobId")
	}
}

func TestDecodeStatus_Garbage(t *testing.T) {
	if _, err := decodeStatus([]byte(`not json`)); err == nil {
		t.Fatal("expected error for non-JSON body")
	}
}
