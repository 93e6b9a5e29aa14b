package domain

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
)

func acceptedStatus(jobID string) *clouddns.Status {
	return &clouddns.Status{
		JobID:       jobID,
		CallbackURL: "https://dns.example/status/" + jobID,
		State:       clouddns.StateRunning,
		Verb:        "POST",
	}
}

func TestCreate_SubmitsJob(t *testing.T) {
	api := &fakeAPI{status: acceptedStatus("job-42")}
	useFakeService(t, api)

	stdout, stderr := execDomain(t, "create", "example.com", "--email", "admin@example.com", "--ttl", "300")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "job-42") {
		t.Errorf("expected job ID in output, got: %s", stdout)
	}
	if len(api.lastCreateOpts) != 1 {
		t.Fatalf("expected one create opt, got %d", len(api.lastCreateOpts))
	}
	if api.lastCreateOpts[0].Name != "example.com" || api.lastCreateOpts[0].TTL != 300 {
		t.Errorf("unexpected create opts: %+v", api.lastCreateOpts[0])
	}
}

func TestCreate_MissingEmailNonInteractive(t *testing.T) {
	useFakeService(t, &fakeAPI{})

	_, stderr := execDomain(t, "create", "example.com")

	if !strings.Contains(stderr, "--email") {
		t.Errorf("expected missing email error, got: %s", stderr)
	}
}

func TestCreate_InvalidName(t *testing.T) {
	api := &fakeAPI{}
	useFakeService(t, api)

	_, stderr := execDomain(t, "create", "not_a_domain", "--email", "admin@example.com")

	if stderr == "" {
		t.Error("expected validation error on stderr")
	}
	if api.lastCreateOpts != nil {
		t.Error("expected no API call for invalid input")
	}
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	useFakeService(t, &fakeAPI{})

	_, stderr := execDomain(t, "update", "101")

	if !strings.Contains(stderr, "nothing to update") {
		t.Errorf("expected nothing-to-update error, got: %s", stderr)
	}
}

func TestUpdate_SubmitsJob(t *testing.T) {
	api := &fakeAPI{status: acceptedStatus("job-9")}
	useFakeService(t, api)

	stdout, stderr := execDomain(t, "update", "101", "--email", "hostmaster@example.com")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "job-9") {
		t.Errorf("expected job ID in output, got: %s", stdout)
	}
}
