package domain

// Domain represents a DNS domain as tracked by the Cloud DNS service.
type Domain struct {
	// ID is the service-assigned domain identifier.
	ID string `json:"id"`

	// Name is the fully-qualified domain name (e.g. "example.com").
	Name string `json:"name"`

	// EmailAddress is the SOA contact address for the zone.
	EmailAddress string `json:"email_address"`

	// TTL is the default time-to-live in seconds applied to records
	// that do not carry their own.
	TTL int `json:"ttl"`

	// Comment is an optional free-form annotation on the domain.
	Comment string `json:"comment,omitempty"`

	// AccountID is the account the domain belongs to.
	AccountID string `json:"account_id,omitempty"`

	// Created and Updated are service-reported timestamps, passed
	// through as strings in the service's own format.
	Created string `json:"created,omitempty"`
	Updated string `json:"updated,omitempty"`

	// Nameservers are the authoritative nameservers serving the zone.
	Nameservers []string `json:"nameservers,omitempty"`

	// Records are the zone's records. Only populated when the caller
	// asked for record details.
	Records []Record `json:"records,omitempty"`
}

// Record represents a single DNS record within a domain.
type Record struct {
	// ID is the service-assigned record identifier.
	ID string `json:"id"`

	// Name is the fully-qualified record name.
	Name string `json:"name"`

	// Type is the DNS record type (A, AAAA, CNAME, MX, etc.).
	Type string `json:"type"`

	// Data is the record value (IP address, hostname, text, etc.).
	Data string `json:"data"`

	// TTL is the time-to-live in seconds.
	TTL int `json:"ttl"`

	// Priority is used for record types that support it (MX, SRV).
	// Zero means not applicable.
	Priority int `json:"priority,omitempty"`
}

// Export is the result of exporting a domain as a zone file.
type Export struct {
	// ID is the identifier of the exported domain.
	ID string `json:"id"`

	// ContentType describes the zone file format (e.g. "BIND_9").
	ContentType string `json:"content_type"`

	// Contents is the full zone file text.
	Contents string `json:"contents"`
}
