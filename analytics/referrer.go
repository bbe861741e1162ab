// analytics/referrer.go
package analytics

import (
	"net/url"
	"strings"
)

// Traffic source labels.
const (
	SourceDirect        = "Direct"
	SourceOrganicSearch = "Organic Search"
	SourceSocial        = "Social"
	SourceEmail         = "Email"
	SourceReferral      = "Referral"
)

// Rule assigns Label to a referrer whose lowercased hostname contains any of Fragments.
type Rule struct {
	Label     string
	Fragments []string
}

// Matches reports whether host contains one of the rule's fragments.
func (r Rule) Matches(host string) bool {
	for _, f := range r.Fragments {
		if strings.Contains(host, f) {
			return true
		}
	}
	return false
}

// DefaultRules are evaluated top-down; the first match wins.
//
// These are plain substring checks, not registrable-domain matches, so
// lookalike hosts are misfiled: anything containing "mail" counts as Email and
// "t.co" also matches hosts such as microsoft.com.
var DefaultRules = []Rule{
	{Label: SourceOrganicSearch, Fragments: []string{"google", "bing", "yahoo", "duckduckgo"}},
	{Label: SourceSocial, Fragments: []string{"twitter", "facebook", "linkedin", "instagram", "t.co", "x.com"}},
	{Label: SourceEmail, Fragments: []string{"substack", "mail", "gmail"}},
}

// Classifier maps referrer URLs to traffic source labels.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules. Nil rules means DefaultRules.
func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the source label for ref. Empty or unparseable referrers,
// including relative references with no scheme, are Direct. An absolute URL
// that no rule claims is Referral, even when it has no host (mailto:, about:).
func (c *Classifier) Classify(ref string) string {
	host, ok := referrerHost(ref)
	if !ok {
		return SourceDirect
	}
	for _, rule := range c.rules {
		if rule.Matches(host) {
			return rule.Label
		}
	}
	return SourceReferral
}

var defaultClassifier = NewClassifier(nil)

// ClassifyReferrer classifies ref with DefaultRules.
func ClassifyReferrer(ref string) string {
	return defaultClassifier.Classify(ref)
}

func referrerHost(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}
