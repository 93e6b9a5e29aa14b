package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"nathanbeddoewebdev/dnsm/internal/clouddns"
	"nathanbeddoewebdev/dnsm/internal/domain"
	dnssvc "nathanbeddoewebdev/dnsm/internal/services/dns"
	"nathanbeddoewebdev/dnsm/internal/util"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// CreateDomainForm runs an interactive wizard that collects options for a
// new domain. Prefilled values from flags are shown as defaults.
func CreateDomainForm(prefill clouddns.CreateDomainOpts) (*clouddns.CreateDomainOpts, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	opts := prefill
	ttlStr := ""
	if opts.TTL > 0 {
		ttlStr = strconv.Itoa(opts.TTL)
	}

	nameField := huh.NewInput().
		Title("Domain name").
		Value(&opts.Name).
		Validate(func(value string) error {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return errors.New("domain name is required")
			}
			return util.ValidateDomainName(strings.ToLower(strings.TrimRight(trimmed, ".")))
		})

	emailField := huh.NewInput().
		Title("Contact email (SOA)").
		Value(&opts.EmailAddress).
		Validate(func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("email address is required")
			}
			return util.ValidateEmailAddress(strings.TrimSpace(value))
		})

	ttlField := huh.NewInput().
		Title("TTL in seconds (empty for default)").
		Value(&ttlStr).
		Validate(func(value string) error {
			value = strings.TrimSpace(value)
			if value == "" {
				return nil
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return errors.New("TTL must be a non-negative number")
			}
			return nil
		})

	commentField := huh.NewInput().
		Title("Comment (optional)").
		Value(&opts.Comment)

	confirm := false
	summaryNote := huh.NewNote().
		Title("Summary").
		DescriptionFunc(func() string {
			var b strings.Builder
			fmt.Fprintf(&b, "Name: %s\n", strings.TrimSpace(opts.Name))
			fmt.Fprintf(&b, "Email: %s\n", strings.TrimSpace(opts.EmailAddress))
			if t := strings.TrimSpace(ttlStr); t != "" {
				fmt.Fprintf(&b, "TTL: %s\n", t)
			} else {
				fmt.Fprintf(&b, "TTL: service default\n")
			}
			if c := strings.TrimSpace(opts.Comment); c != "" {
				fmt.Fprintf(&b, "Comment: %s\n", c)
			}
			return strings.TrimSpace(b.String())
		}, &opts)

	confirmField := huh.NewConfirm().
		Title("Create this domain?").
		Value(&confirm)

	if err := runForm(accessible,
		huh.NewGroup(nameField, emailField),
		huh.NewGroup(ttlField, commentField),
		huh.NewGroup(summaryNote, confirmField),
	); err != nil {
		return nil, err
	}

	if !confirm {
		return nil, ErrAborted
	}

	opts.Name = strings.ToLower(strings.TrimRight(strings.TrimSpace(opts.Name), "."))
	opts.EmailAddress = strings.TrimSpace(opts.EmailAddress)
	opts.Comment = strings.TrimSpace(opts.Comment)
	if t := strings.TrimSpace(ttlStr); t != "" {
		opts.TTL, _ = strconv.Atoi(t)
	} else {
		opts.TTL = 0
	}

	return &opts, nil
}

// DeleteSelection is the outcome of the interactive deletion form.
type DeleteSelection struct {
	IDs              []string
	DeleteSubdomains bool
}

// DeleteDomainsForm lets the user pick domains to delete from the live
// account list and asks for confirmation.
func DeleteDomainsForm(svc *dnssvc.Service) (*DeleteSelection, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	var domains []domain.Domain
	fetchErr := spinner.New().
		Title("Fetching domains...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			domains, err = svc.ListDomains(ctx, clouddns.ListDomainsOpts{})
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fetchErr
	}

	if len(domains) == 0 {
		return nil, fmt.Errorf("no domains in the account")
	}

	options := make([]huh.Option[string], 0, len(domains))
	for _, d := range domains {
		options = append(options, huh.NewOption(d.Name+" ("+d.ID+")", d.ID))
	}

	var sel DeleteSelection
	selectField := huh.NewMultiSelect[string]().
		Title("Domains to delete").
		Options(options...).
		Value(&sel.IDs).
		Height(min(len(options)+2, 12)).
		Validate(func(ids []string) error {
			if len(ids) == 0 {
				return errors.New("select at least one domain")
			}
			return nil
		})

	cascadeField := huh.NewConfirm().
		Title("Also delete subdomains?").
		Value(&sel.DeleteSubdomains)

	confirm := false
	confirmField := huh.NewConfirm().
		Title("Delete the selected domains? This cannot be undone.").
		Value(&confirm)

	if err := runForm(accessible,
		huh.NewGroup(selectField),
		huh.NewGroup(cascadeField, confirmField),
	); err != nil {
		return nil, err
	}

	if !confirm {
		return nil, ErrAborted
	}

	return &sel, nil
}
