package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDelete_SubmitsJob(t *testing.T) {
	api := &fakeAPI{status: acceptedStatus("job-5")}
	useFakeService(t, api)

	stdout, stderr := execDomain(t, "delete", "101", "102", "--cascade", "--yes")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "job-5") {
		t.Errorf("expected job ID in output, got: %s", stdout)
	}
	if diff := cmp.Diff([]string{"101", "102"}, api.lastDeleteIDs); diff != "" {
		t.Errorf("delete IDs mismatch (-want +got):\n%s", diff)
	}
	if !api.lastCascade {
		t.Error("expected cascade flag to be passed through")
	}
}

func TestDelete_ConfirmDeclined(t *testing.T) {
	api := &fakeAPI{status: acceptedStatus("job-5")}
	useFakeService(t, api)

	var outBuf, errBuf strings.Builder
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"delete", "101"})
	cmd.Execute()

	if !strings.Contains(outBuf.String(), "Cancelled.") {
		t.Errorf("expected cancellation message, got: %s", outBuf.String())
	}
	if api.lastDeleteIDs != nil {
		t.Error("expected no API call after declined confirmation")
	}
}

func TestDelete_ConfirmAccepted(t *testing.T) {
	api := &fakeAPI{status: acceptedStatus("job-5")}
	useFakeService(t, api)

	var outBuf, errBuf strings.Builder
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader("y\n"))
	cmd.SetArgs([]string{"delete", "101"})
	cmd.Execute()

	if !strings.Contains(outBuf.String(), "job-5") {
		t.Errorf("expected job ID in output, got: %s", outBuf.String())
	}
}

func TestDelete_NoIDsNonInteractive(t *testing.T) {
	useFakeService(t, &fakeAPI{})

	_, stderr := execDomain(t, "delete")

	if !strings.Contains(stderr, "required") {
		t.Errorf("expected required-IDs error, got: %s", stderr)
	}
}
