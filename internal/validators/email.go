package validators

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrUndeliverableDomain = errors.New("email domain does not accept mail")

type mailResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var resolver mailResolver = net.DefaultResolver

const lookupTimeout = 3 * time.Second

// NormalizeEmail lowercases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// VerifyEmailDomain checks that the domain of email can receive mail: it
// publishes MX records (other than the RFC 7505 null MX) or, lacking
// them, resolves to a host. A resolver that times out counts as a pass.
func VerifyEmailDomain(ctx context.Context, email string) error {
	local, domain, ok := strings.Cut(NormalizeEmail(email), "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return ErrUndeliverableDomain
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	mx, err := resolver.LookupMX(ctx, domain)
	switch {
	case err == nil && len(mx) == 1 && mx[0].Host == ".":
		return errors.Wrap(ErrUndeliverableDomain, domain)
	case err == nil && len(mx) > 0:
		return nil
	case unresolved(err):
		return nil
	}

	hosts, err := resolver.LookupHost(ctx, domain)
	if unresolved(err) || (err == nil && len(hosts) > 0) {
		return nil
	}
	return errors.Wrap(ErrUndeliverableDomain, domain)
}

func unresolved(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && (dnsErr.IsTimeout || dnsErr.IsTemporary)
}
