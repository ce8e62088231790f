// Package trust implements the static allow-list consulted before the
// detection pipeline runs. Senders matched here bypass analysis entirely.
package trust

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
)

// Checker matches senders against configured exact addresses and domains.
type Checker struct {
	addresses map[string]struct{}
	domains   map[string]struct{}
	logger    *zap.Logger
}

// NewChecker creates a new checker. Entries are normalized to lowercase.
func NewChecker(addresses, domains []string, logger *zap.Logger) *Checker {
	c := &Checker{
		addresses: make(map[string]struct{}, len(addresses)),
		domains:   make(map[string]struct{}, len(domains)),
		logger:    logger,
	}
	for _, a := range addresses {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			c.addresses[a] = struct{}{}
		}
	}
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			c.domains[d] = struct{}{}
		}
	}

	if logger != nil && (len(c.addresses) > 0 || len(c.domains) > 0) {
		logger.Info("Initialized trusted-sender checker",
			zap.Int("addresses", len(c.addresses)),
			zap.Int("domains", len(c.domains)))
	}
	return c
}

// IsTrusted reports whether the sender (raw header value or bare address) is
// allow-listed by exact address or by domain.
func (c *Checker) IsTrusted(sender string) bool {
	if len(c.addresses) == 0 && len(c.domains) == 0 {
		return false
	}

	addr := normalizeAddress(sender)
	if addr == "" {
		return false
	}
	if _, ok := c.addresses[addr]; ok {
		return true
	}

	if i := strings.LastIndex(addr, "@"); i >= 0 {
		if _, ok := c.domains[addr[i+1:]]; ok {
			return true
		}
	}
	return false
}

// normalizeAddress extracts the bare lowercase address from header values
// like `"Display Name" <user@example.com>`.
func normalizeAddress(sender string) string {
	sender = strings.TrimSpace(sender)
	if parsed, err := mail.ParseAddress(sender); err == nil {
		return strings.ToLower(parsed.Address)
	}
	return strings.ToLower(sender)
}
