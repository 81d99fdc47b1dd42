// Package urlcheck classifies destination URLs before they are stored
// and again, more lightly, at redirect time. Classification is pure
// string work against the literal hostname: no DNS lookup, no network.
package urlcheck

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/prasetyowira/qrlink/constant"
)

// Rule names the validation step that rejected a candidate.
type Rule string

const (
	RuleEmptyInput          Rule = "empty_input"
	RuleTooLong             Rule = "too_long"
	RuleMalformedURL        Rule = "malformed_url"
	RuleDisallowedProtocol  Rule = "disallowed_protocol"
	RuleBlockedHost         Rule = "blocked_host"
	RuleEmbeddedCredentials Rule = "embedded_credentials"
)

// ErrorCode maps a rule to its log error code.
func (r Rule) ErrorCode() string {
	switch r {
	case RuleEmptyInput:
		return constant.ErrCodeURLEmpty
	case RuleTooLong:
		return constant.ErrCodeURLTooLong
	case RuleMalformedURL:
		return constant.ErrCodeURLMalformed
	case RuleDisallowedProtocol:
		return constant.ErrCodeURLProtocol
	case RuleBlockedHost:
		return constant.ErrCodeURLBlockedHost
	case RuleEmbeddedCredentials:
		return constant.ErrCodeURLCredentials
	}
	return ""
}

// Result is the outcome of one validation pass. Rejections are values,
// not errors: Valid is false and Rule/Message carry the cause. On
// success Normalized holds the canonical re-serialized URL.
type Result struct {
	Valid      bool
	Rule       Rule
	Message    string
	Normalized string
}

// DefaultMaxLength bounds accepted destination URLs.
const DefaultMaxLength = 2048

// Policy tunes a validation pass.
type Policy struct {
	MaxLength int
	// RejectSingleLabelHosts also refuses bare intranet-style hostnames
	// ("http://intranet/") that are not IP literals.
	RejectSingleLabelHosts bool
}

// DefaultPolicy is the pass applied to dashboard live checks.
func DefaultPolicy() Policy {
	return Policy{MaxLength: DefaultMaxLength}
}

// StrictPolicy is the pass applied before a destination is stored.
func StrictPolicy() Policy {
	return Policy{MaxLength: DefaultMaxLength, RejectSingleLabelHosts: true}
}

// Validate runs the default policy.
func Validate(raw string) Result {
	return DefaultPolicy().Validate(raw)
}

// ValidateStrict runs the strict policy.
func ValidateStrict(raw string) Result {
	return StrictPolicy().Validate(raw)
}

// metadataHosts are cloud metadata endpoints that must never be
// reachable through a managed link.
var metadataHosts = map[string]struct{}{
	"169.254.169.254":          {},
	"metadata.google.internal": {},
	"100.100.100.200":          {},
}

// Validate classifies a candidate destination. Steps short-circuit in
// order: emptiness, length, parse, protocol allow-list, host blocklist,
// embedded credentials.
func (p Policy) Validate(raw string) Result {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return reject(RuleEmptyInput, "URL is empty")
	}

	max := p.MaxLength
	if max <= 0 {
		max = DefaultMaxLength
	}
	if len(candidate) > max {
		return reject(RuleTooLong, fmt.Sprintf("URL exceeds %d characters", max))
	}

	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() {
		return reject(RuleMalformedURL, "URL cannot be parsed as an absolute URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return reject(RuleDisallowedProtocol, fmt.Sprintf("protocol %q is not allowed", u.Scheme))
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return reject(RuleMalformedURL, "URL has no host")
	}
	if blockedHost(host) {
		return reject(RuleBlockedHost, fmt.Sprintf("host %q is not allowed", host))
	}
	if p.RejectSingleLabelHosts && !strings.Contains(host, ".") && net.ParseIP(host) == nil {
		return reject(RuleBlockedHost, fmt.Sprintf("single-label host %q is not allowed", host))
	}

	if u.User != nil {
		return reject(RuleEmbeddedCredentials, "URL embeds credentials")
	}

	return Result{Valid: true, Normalized: u.String()}
}

// AllowRedirect is the light redirect-time re-check: re-parse and
// re-check the protocol allow-list only. The full policy already ran
// when the destination was stored; this guards against a stored value
// that was corrupted or bypassed.
func AllowRedirect(stored string) bool {
	candidate := strings.TrimSpace(stored)
	if candidate == "" {
		return false
	}

	u, err := url.Parse(candidate)
	if err != nil || !u.IsAbs() {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func reject(rule Rule, message string) Result {
	return Result{Rule: rule, Message: message}
}

// blockedHost reports whether the literal hostname text is a known
// internal or otherwise dangerous redirect target.
func blockedHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}
	if _, ok := metadataHosts[host]; ok {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() ||
			ip.IsPrivate() ||
			ip.IsLinkLocalUnicast() ||
			ip.IsLinkLocalMulticast() ||
			ip.IsUnspecified()
	}

	return false
}
