package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validDomainChars matches only alphanumeric characters, hyphens, and periods.
var validDomainChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateDomainName checks that a domain name is plausible before it is
// sent to the service:
//   - Contains at least one dot (the service rejects bare labels)
//   - Only alphanumeric characters, hyphens, and periods
//   - No label starts or ends with a hyphen
//   - Total length at most 253 characters
func ValidateDomainName(name string) error {
	if len(name) > 253 {
		return fmt.Errorf("domain name exceeds 253 characters")
	}
	if !strings.Contains(name, ".") {
		return fmt.Errorf("domain name %q must contain at least one dot", name)
	}
	if !validDomainChars.MatchString(name) {
		return fmt.Errorf("domain name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", name)
	}
	for _, label := range strings.Split(name, ".") {
		if label == "" {
			return fmt.Errorf("domain name %q contains an empty label", name)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("domain name %q has a label starting or ending with a hyphen", name)
		}
	}
	return nil
}

// ValidateEmailAddress does a shape check on an SOA contact address. The
// service performs the authoritative validation; this only catches
// obvious typos before a network round trip.
func ValidateEmailAddress(addr string) error {
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return fmt.Errorf("email address %q must have the form user@host", addr)
	}
	if strings.Count(addr, "@") > 1 {
		return fmt.Errorf("email address %q contains more than one @", addr)
	}
	return nil
}
