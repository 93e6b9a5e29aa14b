package clouddns

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"nathanbeddoewebdev/dnsm/internal/domain"
)

// ContentTypeBIND9 is the zone file format accepted by domain import.
const ContentTypeBIND9 = "BIND_9"

// --- API wire types ---

// apiDomain maps to the Cloud DNS domain object.
type apiDomain struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	TTL          int    `json:"ttl"`
	Comment      string `json:"comment"`
	AccountID    int64  `json:"accountId"`
	Created      string `json:"created"`
	Updated      string `json:"updated"`

	Nameservers []struct {
		Name string `json:"name"`
	} `json:"nameservers"`

	RecordsList struct {
		Records []apiRecord `json:"records"`
	} `json:"recordsList"`
}

// apiRecord maps to the Cloud DNS record object.
type apiRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	TTL      int    `json:"ttl"`
	Priority int    `json:"priority"`
}

// domainListBody is the collection shape shared by the list endpoint and
// by completed create/import payloads.
type domainListBody struct {
	Domains      []apiDomain `json:"domains"`
	TotalEntries int         `json:"totalEntries"`
}

// --- Conversion helpers ---

func toDomain(d apiDomain) domain.Domain {
	out := domain.Domain{
		ID:           strconv.FormatInt(d.ID, 10),
		Name:         d.Name,
		EmailAddress: d.EmailAddress,
		TTL:          d.TTL,
		Comment:      d.Comment,
		Created:      d.Created,
		Updated:      d.Updated,
	}
	if d.AccountID != 0 {
		out.AccountID = strconv.FormatInt(d.AccountID, 10)
	}
	for _, ns := range d.Nameservers {
		out.Nameservers = append(out.Nameservers, ns.Name)
	}
	for _, r := range d.RecordsList.Records {
		out.Records = append(out.Records, domain.Record{
			ID:       r.ID,
			Name:     r.Name,
			Type:     r.Type,
			Data:     r.Data,
			TTL:      r.TTL,
			Priority: r.Priority,
		})
	}
	return out
}

func toDomains(list []apiDomain) []domain.Domain {
	domains := make([]domain.Domain, 0, len(list))
	for _, d := range list {
		domains = append(domains, toDomain(d))
	}
	return domains
}

// DomainsFromResult extracts the domain collection from a completed
// snapshot's result payload. Create and import jobs both answer with
// this shape.
func DomainsFromResult(st *Status) ([]domain.Domain, error) {
	res, ok := st.Result()
	if !ok {
		return nil, fmt.Errorf("clouddns: job %s has no result payload", st.JobID)
	}
	var body domainListBody
	if err := json.Unmarshal(res, &body); err != nil {
		return nil, fmt.Errorf("clouddns: failed to decode job %s result: %w", st.JobID, err)
	}
	return toDomains(body.Domains), nil
}

// --- Reads (synchronous) ---

// ListDomainsOpts filters and pages the domain list.
type ListDomainsOpts struct {
	// Name restricts the list to domains whose name contains the value.
	Name string

	// Limit and Offset page through large accounts. Zero means the
	// service default.
	Limit  int
	Offset int
}

// ListDomains returns the domains in the account.
func (c *Client) ListDomains(ctx context.Context, opts ListDomainsOpts) ([]domain.Domain, error) {
	query := url.Values{}
	if opts.Name != "" {
		query.Set("name", opts.Name)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var out domainListBody
	if err := c.get(ctx, request{method: http.MethodGet, path: "/domains", query: query}, &out); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return toDomains(out.Domains), nil
}

// GetDomain returns a single domain by its ID, optionally including its
// records.
func (c *Client) GetDomain(ctx context.Context, id string, showRecords bool) (*domain.Domain, error) {
	if id == "" {
		return nil, required("id")
	}

	query := url.Values{}
	if showRecords {
		query.Set("showRecords", "true")
	}

	var out apiDomain
	if err := c.get(ctx, request{method: http.MethodGet, path: "/domains/" + id, query: query}, &out); err != nil {
		return nil, fmt.Errorf("failed to get domain %s: %w", id, err)
	}
	d := toDomain(out)
	return &d, nil
}

// --- Create ---

// CreateDomainOpts holds the parameters for one domain in a create batch.
type CreateDomainOpts struct {
	// Name is the fully-qualified domain name. Required.
	Name string

	// EmailAddress is the SOA contact for the zone. Required.
	EmailAddress string

	// TTL is the default record time-to-live in seconds.
	// Zero means the service default.
	TTL int

	// Comment is an optional annotation.
	Comment string
}

// CreateDomains submits a batch domain creation and returns the job's
// initial Status. Validation failures are reported before any network
// call is made.
func (c *Client) CreateDomains(ctx context.Context, opts []CreateDomainOpts) (*Status, error) {
	if len(opts) == 0 {
		return nil, required("domains")
	}

	type createDomain struct {
		Name         string `json:"name"`
		EmailAddress string `json:"emailAddress"`
		TTL          int    `json:"ttl,omitempty"`
		Comment      string `json:"comment,omitempty"`
	}
	body := struct {
		Domains []createDomain `json:"domains"`
	}{}

	for i, o := range opts {
		if o.Name == "" {
			return nil, required(fmt.Sprintf("domains[%d].name", i))
		}
		if o.EmailAddress == "" {
			return nil, required(fmt.Sprintf("domains[%d].emailAddress", i))
		}
		body.Domains = append(body.Domains, createDomain{
			Name:         o.Name,
			EmailAddress: o.EmailAddress,
			TTL:          o.TTL,
			Comment:      o.Comment,
		})
	}

	return c.submit(ctx, request{method: http.MethodPost, path: "/domains", body: body})
}

// CreateDomainsAndWait creates the domains and blocks until the job
// completes, returning the created domains.
func (c *Client) CreateDomainsAndWait(ctx context.Context, opts []CreateDomainOpts, cfg WaitConfig) ([]domain.Domain, error) {
	st, err := c.CreateDomains(ctx, opts)
	if err != nil {
		return nil, err
	}
	final, err := c.WaitForResult(ctx, st, cfg)
	if err != nil {
		return nil, err
	}
	return DomainsFromResult(final)
}

// --- Update ---

// UpdateDomainOpts holds the mutable domain fields. At least one must be
// set.
type UpdateDomainOpts struct {
	// EmailAddress replaces the SOA contact. Empty means unchanged.
	EmailAddress string

	// TTL replaces the default record TTL. Zero means unchanged.
	TTL int

	// Comment controls the annotation. nil means unchanged; pointer to
	// empty string clears it.
	Comment *string
}

// UpdateDomain submits an update of a single domain and returns the
// job's initial Status.
func (c *Client) UpdateDomain(ctx context.Context, id string, opts UpdateDomainOpts) (*Status, error) {
	if id == "" {
		return nil, required("id")
	}
	if opts.EmailAddress == "" && opts.TTL <= 0 && opts.Comment == nil {
		return nil, &ValidationError{Reason: "nothing to update"}
	}

	body := struct {
		EmailAddress string  `json:"emailAddress,omitempty"`
		TTL          int     `json:"ttl,omitempty"`
		Comment      *string `json:"comment,omitempty"`
	}{
		EmailAddress: opts.EmailAddress,
		TTL:          opts.TTL,
		Comment:      opts.Comment,
	}

	return c.submit(ctx, request{method: http.MethodPut, path: "/domains/" + id, body: body})
}

// UpdateDomainAndWait updates the domain and blocks until the job
// reaches a terminal state.
func (c *Client) UpdateDomainAndWait(ctx context.Context, id string, opts UpdateDomainOpts, cfg WaitConfig) error {
	st, err := c.UpdateDomain(ctx, id, opts)
	if err != nil {
		return err
	}
	_, err = c.WaitForResult(ctx, st, cfg)
	return err
}

// --- Delete ---

// DeleteDomains submits a batch deletion. The target ids and the cascade
// flag travel as query parameters; there is no request body.
func (c *Client) DeleteDomains(ctx context.Context, ids []string, deleteSubdomains bool) (*Status, error) {
	if len(ids) == 0 {
		return nil, required("id")
	}

	query := url.Values{}
	for i, id := range ids {
		if id == "" {
			return nil, required(fmt.Sprintf("id[%d]", i))
		}
		query.Add("id", id)
	}
	query.Set("deleteSubdomains", strconv.FormatBool(deleteSubdomains))

	return c.submit(ctx, request{method: http.MethodDelete, path: "/domains", query: query})
}

// DeleteDomainsAndWait deletes the domains and blocks until the job
// reaches a terminal state. The batch resolves as one unit; there is no
// per-domain outcome.
func (c *Client) DeleteDomainsAndWait(ctx context.Context, ids []string, deleteSubdomains bool, cfg WaitConfig) error {
	st, err := c.DeleteDomains(ctx, ids, deleteSubdomains)
	if err != nil {
		return err
	}
	_, err = c.WaitForResult(ctx, st, cfg)
	return err
}

// --- Import / export ---

// ImportDomainOpts holds a zone file to import.
type ImportDomainOpts struct {
	// ContentType describes the zone format. Defaults to BIND_9.
	ContentType string

	// Contents is the zone file text. Required.
	Contents string
}

// ImportDomain submits a zone file import and returns the job's initial
// Status.
func (c *Client) ImportDomain(ctx context.Context, opts ImportDomainOpts) (*Status, error) {
	if opts.Contents == "" {
		return nil, required("contents")
	}
	if opts.ContentType == "" {
		opts.ContentType = ContentTypeBIND9
	}

	type importDomain struct {
		ContentType string `json:"contentType"`
		Contents    string `json:"contents"`
	}
	body := struct {
		Domains []importDomain `json:"domains"`
	}{
		Domains: []importDomain{{ContentType: opts.ContentType, Contents: opts.Contents}},
	}

	return c.submit(ctx, request{method: http.MethodPost, path: "/domains/import", body: body})
}

// ImportDomainAndWait imports the zone file and blocks until the job
// completes, returning the created domains.
func (c *Client) ImportDomainAndWait(ctx context.Context, opts ImportDomainOpts, cfg WaitConfig) ([]domain.Domain, error) {
	st, err := c.ImportDomain(ctx, opts)
	if err != nil {
		return nil, err
	}
	final, err := c.WaitForResult(ctx, st, cfg)
	if err != nil {
		return nil, err
	}
	return DomainsFromResult(final)
}

// ExportDomain submits an export of the domain as a zone file. Export is
// asynchronous like every other mutation: the call answers 202 and the
// zone file arrives in the completed job's payload.
func (c *Client) ExportDomain(ctx context.Context, id string) (*Status, error) {
	if id == "" {
		return nil, required("id")
	}
	return c.submit(ctx, request{method: http.MethodGet, path: "/domains/" + id + "/export"})
}

// ExportDomainAndWait exports the domain and blocks until the zone file
// is ready.
func (c *Client) ExportDomainAndWait(ctx context.Context, id string, cfg WaitConfig) (*domain.Export, error) {
	st, err := c.ExportDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	final, err := c.WaitForResult(ctx, st, cfg)
	if err != nil {
		return nil, err
	}
	return ExportFromResult(final)
}

// ExportFromResult extracts the zone file from a completed export job's
// payload.
func ExportFromResult(st *Status) (*domain.Export, error) {
	res, ok := st.Result()
	if !ok {
		return nil, fmt.Errorf("clouddns: job %s has no result payload", st.JobID)
	}
	var out struct {
		ID          int64  `json:"id"`
		ContentType string `json:"contentType"`
		Contents    string `json:"contents"`
	}
	if err := json.Unmarshal(res, &out); err != nil {
		return nil, fmt.Errorf("clouddns: failed to decode job %s result: %w", st.JobID, err)
	}
	return &domain.Export{
		ID:          strconv.FormatInt(out.ID, 10),
		ContentType: out.ContentType,
		Contents:    out.Contents,
	}, nil
}
