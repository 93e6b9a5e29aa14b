// Package dns provides the domain-management service layer.
//
// The Service type wraps the Cloud DNS client and adds input
// normalisation, validation, default value application, read caching,
// and local tracking of asynchronous jobs. CLI commands construct a
// Service and call its methods rather than calling the client directly.
package dns

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/domain"
	"nathanbeddoewebdev/dnsm/internal/opstore"
	"nathanbeddoewebdev/dnsm/internal/swrcache"
	"nathanbeddoewebdev/dnsm/internal/util"
)

// API is the subset of the Cloud DNS client the service depends on.
type API interface {
	ListDomains(ctx context.Context, opts clouddns.ListDomainsOpts) ([]domain.Domain, error)
	GetDomain(ctx context.Context, id string, showRecords bool) (*domain.Domain, error)
	CreateDomains(ctx context.Context, opts []clouddns.CreateDomainOpts) (*clouddns.Status, error)
	UpdateDomain(ctx context.Context, id string, opts clouddns.UpdateDomainOpts) (*clouddns.Status, error)
	DeleteDomains(ctx context.Context, ids []string, deleteSubdomains bool) (*clouddns.Status, error)
	ImportDomain(ctx context.Context, opts clouddns.ImportDomainOpts) (*clouddns.Status, error)
	ExportDomain(ctx context.Context, id string) (*clouddns.Status, error)
	PollStatus(ctx context.Context, jobID string) (*clouddns.Status, error)
	WaitForResult(ctx context.Context, st *clouddns.Status, cfg clouddns.WaitConfig) (*clouddns.Status, error)
}

// Service is the domain-management business logic layer.
type Service struct {
	api        API
	cache      *swrcache.Cache
	ops        opstore.Repository
	wait       clouddns.WaitConfig
	defaultTTL int
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables stale-while-revalidate caching for read operations.
func WithCache(cache *swrcache.Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithOperationStore enables local tracking of asynchronous jobs so they
// can be resumed after the process exits.
func WithOperationStore(ops opstore.Repository) Option {
	return func(s *Service) { s.ops = ops }
}

// WithWaitConfig overrides the polling parameters used by the AndWait
// methods.
func WithWaitConfig(cfg clouddns.WaitConfig) Option {
	return func(s *Service) { s.wait = cfg }
}

// WithDefaultTTL sets the TTL applied to created domains when the caller
// does not specify one.
func WithDefaultTTL(ttl int) Option {
	return func(s *Service) { s.defaultTTL = ttl }
}

// New returns a Service backed by the given API client.
func New(api API, opts ...Option) *Service {
	svc := &Service{api: api, wait: clouddns.DefaultWaitConfig()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// minTTL is the lowest record TTL the service accepts.
const minTTL = 300

// normalizeDomain lowercases and strips any trailing dot from a domain name.
func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(d), "."))
}

func validateTTL(ttl int) error {
	if ttl != 0 && ttl < minTTL {
		return fmt.Errorf("TTL must be at least %d seconds", minTTL)
	}
	return nil
}

// --- Reads ---

// ListDomains returns the domains in the account, optionally filtered by
// name substring and paged.
func (s *Service) ListDomains(ctx context.Context, opts clouddns.ListDomainsOpts) ([]domain.Domain, error) {
	opts.Name = normalizeDomain(opts.Name)

	if s.cache == nil {
		return s.api.ListDomains(ctx, opts)
	}
	key := cacheKey("domains", opts.Name, strconv.Itoa(opts.Limit), strconv.Itoa(opts.Offset))
	return swrcache.GetOrFetch(s.cache, ctx, key, func(ctx context.Context) ([]domain.Domain, error) {
		return s.api.ListDomains(ctx, opts)
	})
}

// GetDomain returns a single domain by ID, optionally with its records.
func (s *Service) GetDomain(ctx context.Context, id string, showRecords bool) (*domain.Domain, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("domain ID is required")
	}

	if s.cache == nil {
		return s.api.GetDomain(ctx, id, showRecords)
	}
	key := cacheKey("domain", id, strconv.FormatBool(showRecords))
	return swrcache.GetOrFetch(s.cache, ctx, key, func(ctx context.Context) (*domain.Domain, error) {
		return s.api.GetDomain(ctx, id, showRecords)
	})
}

// --- Mutations ---

// CreateDomains validates and submits a batch domain creation, returning
// the job's initial status. The returned snapshot can be passed to Await
// to block for the outcome.
func (s *Service) CreateDomains(ctx context.Context, opts []clouddns.CreateDomainOpts) (*clouddns.Status, error) {
	for i := range opts {
		opts[i].Name = normalizeDomain(opts[i].Name)
		if err := util.ValidateDomainName(opts[i].Name); err != nil {
			return nil, err
		}
		if err := util.ValidateEmailAddress(opts[i].EmailAddress); err != nil {
			return nil, err
		}
		if opts[i].TTL <= 0 {
			opts[i].TTL = s.defaultTTL
		}
		if err := validateTTL(opts[i].TTL); err != nil {
			return nil, err
		}
	}

	st, err := s.api.CreateDomains(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.recordSubmission(st, createSummary(opts))
	return st, nil
}

// CreateDomainsAndWait creates the domains and blocks until the job
// completes, returning the created domains.
func (s *Service) CreateDomainsAndWait(ctx context.Context, opts []clouddns.CreateDomainOpts) ([]domain.Domain, error) {
	st, err := s.CreateDomains(ctx, opts)
	if err != nil {
		return nil, err
	}
	final, err := s.Await(ctx, st)
	if err != nil {
		return nil, err
	}
	s.invalidateReads()
	return clouddns.DomainsFromResult(final)
}

// UpdateDomain validates and submits an update of one domain.
func (s *Service) UpdateDomain(ctx context.Context, id string, opts clouddns.UpdateDomainOpts) (*clouddns.Status, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("domain ID is required")
	}
	if opts.EmailAddress != "" {
		if err := util.ValidateEmailAddress(opts.EmailAddress); err != nil {
			return nil, err
		}
	}
	if err := validateTTL(opts.TTL); err != nil {
		return nil, err
	}

	st, err := s.api.UpdateDomain(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	s.recordSubmission(st, "update domain "+id)
	return st, nil
}

// UpdateDomainAndWait updates the domain and blocks until the job
// reaches a terminal state.
func (s *Service) UpdateDomainAndWait(ctx context.Context, id string, opts clouddns.UpdateDomainOpts) error {
	st, err := s.UpdateDomain(ctx, id, opts)
	if err != nil {
		return err
	}
	if _, err := s.Await(ctx, st); err != nil {
		return err
	}
	s.invalidateReads()
	return nil
}

// DeleteDomains submits a batch deletion. The batch resolves as one
// unit; there is no per-domain outcome.
func (s *Service) DeleteDomains(ctx context.Context, ids []string, deleteSubdomains bool) (*clouddns.Status, error) {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("domain ID is required")
		}
		cleaned = append(cleaned, id)
	}

	st, err := s.api.DeleteDomains(ctx, cleaned, deleteSubdomains)
	if err != nil {
		return nil, err
	}
	s.recordSubmission(st, deleteSummary(cleaned))
	return st, nil
}

// DeleteDomainsAndWait deletes the domains and blocks until the job
// reaches a terminal state.
func (s *Service) DeleteDomainsAndWait(ctx context.Context, ids []string, deleteSubdomains bool) error {
	st, err := s.DeleteDomains(ctx, ids, deleteSubdomains)
	if err != nil {
		return err
	}
	if _, err := s.Await(ctx, st); err != nil {
		return err
	}
	s.invalidateReads()
	return nil
}

// ImportDomain submits a zone file import.
func (s *Service) ImportDomain(ctx context.Context, opts clouddns.ImportDomainOpts) (*clouddns.Status, error) {
	if strings.TrimSpace(opts.Contents) == "" {
		return nil, fmt.Errorf("zone file contents are required")
	}
	if opts.ContentType != "" && opts.ContentType != clouddns.ContentTypeBIND9 {
		return nil, fmt.Errorf("unsupported zone content type %q", opts.ContentType)
	}

	st, err := s.api.ImportDomain(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.recordSubmission(st, "import zone file")
	return st, nil
}

// ImportDomainAndWait imports the zone file and blocks until the job
// completes, returning the created domains.
func (s *Service) ImportDomainAndWait(ctx context.Context, opts clouddns.ImportDomainOpts) ([]domain.Domain, error) {
	st, err := s.ImportDomain(ctx, opts)
	if err != nil {
		return nil, err
	}
	final, err := s.Await(ctx, st)
	if err != nil {
		return nil, err
	}
	s.invalidateReads()
	return clouddns.DomainsFromResult(final)
}

// ExportDomain submits an export of the domain as a zone file.
func (s *Service) ExportDomain(ctx context.Context, id string) (*clouddns.Status, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("domain ID is required")
	}

	st, err := s.api.ExportDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recordSubmission(st, "export domain "+id)
	return st, nil
}

// ExportDomainAndWait exports the domain and blocks until the zone file
// is ready.
func (s *Service) ExportDomainAndWait(ctx context.Context, id string) (*domain.Export, error) {
	st, err := s.ExportDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	final, err := s.Await(ctx, st)
	if err != nil {
		return nil, err
	}
	return clouddns.ExportFromResult(final)
}

// invalidateReads drops all cached read results after a mutation.
// List keys vary with filter and paging options, so the whole cache is
// cleared rather than chasing individual keys.
func (s *Service) invalidateReads() {
	if s.cache != nil {
		_ = s.cache.Clear()
	}
}

func createSummary(opts []clouddns.CreateDomainOpts) string {
	if len(opts) == 1 {
		return "create " + opts[0].Name
	}
	return "create " + strconv.Itoa(len(opts)) + " domains"
}

func deleteSummary(ids []string) string {
	if len(ids) == 1 {
		return "delete domain " + ids[0]
	}
	return "delete " + strconv.Itoa(len(ids)) + " domains"
}
