// Package bypass decides which senders skip the model chain. Automated
// senders and whitelisted domains receive deterministic-only analysis:
// calling a completion model on machine-generated mail wastes spend and can
// feed reply loops.
package bypass

import (
	"strings"

	"go.uber.org/zap"
)

// Checker matches senders against automated-sender prefixes and a domain
// whitelist.
type Checker struct {
	domains  []string
	prefixes []string
	logger   *zap.Logger
}

// NewChecker creates a new bypass checker. Domains and prefixes are
// normalized to lowercase.
func NewChecker(domains []string, automatedPrefixes []string, logger *zap.Logger) *Checker {
	normalizedDomains := make([]string, len(domains))
	for i, domain := range domains {
		normalizedDomains[i] = strings.ToLower(strings.TrimSpace(domain))
	}
	normalizedPrefixes := make([]string, len(automatedPrefixes))
	for i, prefix := range automatedPrefixes {
		normalizedPrefixes[i] = strings.ToLower(strings.TrimSpace(prefix))
	}

	if logger != nil && (len(normalizedDomains) > 0 || len(normalizedPrefixes) > 0) {
		logger.Info("Initialized bypass checker",
			zap.Strings("domains", normalizedDomains),
			zap.Strings("automated_prefixes", normalizedPrefixes))
	}

	return &Checker{
		domains:  normalizedDomains,
		prefixes: normalizedPrefixes,
		logger:   logger,
	}
}

// ShouldBypass reports whether the sender's analysis should skip the model
// chain entirely.
func (c *Checker) ShouldBypass(sender string) bool {
	addr := strings.ToLower(address(strings.TrimSpace(sender)))
	if addr == "" {
		return false
	}

	for _, prefix := range c.prefixes {
		if prefix != "" && strings.HasPrefix(addr, prefix) {
			if c.logger != nil {
				c.logger.Debug("Sender matches automated prefix",
					zap.String("sender", sender),
					zap.String("prefix", prefix))
			}
			return true
		}
	}

	return c.isWhitelisted(addr)
}

func (c *Checker) isWhitelisted(addr string) bool {
	if len(c.domains) == 0 {
		return false
	}

	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]

	for _, whitelisted := range c.domains {
		if whitelisted == domain {
			if c.logger != nil {
				c.logger.Debug("Domain is whitelisted",
					zap.String("domain", domain),
					zap.String("email", addr))
			}
			return true
		}
	}

	return false
}

// address extracts the addr-spec from forms like "Alerts <noreply@svc.io>".
func address(sender string) string {
	if start := strings.LastIndexByte(sender, '<'); start >= 0 {
		if end := strings.IndexByte(sender[start:], '>'); end > 0 {
			return sender[start+1 : start+end]
		}
	}
	return sender
}
