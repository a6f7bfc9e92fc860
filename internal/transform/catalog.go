package transform

import (
	"regexp"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
)

// CatalogEntry is one abort-code constant: its Move name, numeric code, the
// std::error category helper used under verbose reporting, and whether any
// rewritten code references it.
type CatalogEntry struct {
	Name       string
	Code       uint64
	Category   string
	Doc        string
	Referenced bool
}

// Classifier maps a source revert message to a standard error name. The
// regex classifier is the default; callers can substitute their own.
type Classifier interface {
	Classify(message string) (name string, ok bool)
}

// Standard error names, in code order. The order is part of the output
// contract: regenerating a module must not renumber its aborts.
var standardErrors = []struct {
	name     string
	category string
	doc      string
}{
	{"E_NOT_AUTHORIZED", "permission_denied", "Caller lacks the required permission."},
	{"E_NOT_OWNER", "permission_denied", "Caller is not the owner."},
	{"E_PAUSED", "invalid_state", "Operation unavailable while paused."},
	{"E_NOT_PAUSED", "invalid_state", "Operation requires the paused state."},
	{"E_REENTRANCY", "invalid_state", "Reentrant call rejected."},
	{"E_INSUFFICIENT_BALANCE", "invalid_argument", "Balance too low for the request."},
	{"E_INSUFFICIENT_ALLOWANCE", "invalid_argument", "Allowance too low for the request."},
	{"E_ZERO_ADDRESS", "invalid_argument", "The zero address is not a valid target."},
	{"E_ZERO_AMOUNT", "invalid_argument", "A zero amount is not a valid input."},
	{"E_OVERFLOW", "out_of_range", "Arithmetic result exceeds the type width."},
	{"E_UNDERFLOW", "out_of_range", "Arithmetic result below zero."},
	{"E_DIVISION_BY_ZERO", "invalid_argument", "Division or modulo by zero."},
	{"E_ALREADY_INITIALIZED", "invalid_state", "Initialization ran twice."},
	{"E_NOT_INITIALIZED", "invalid_state", "Initialization has not run yet."},
	{"E_ALREADY_EXISTS", "already_exists", "The entry already exists."},
	{"E_NOT_FOUND", "not_found", "No such entry."},
	{"E_EXPIRED", "invalid_state", "The deadline has passed."},
	{"E_INVALID_ARGUMENT", "invalid_argument", "An argument is out of the accepted domain."},
	{"E_INVALID_STATE", "invalid_state", "Operation does not apply in the current state."},
	{"E_LIMIT_EXCEEDED", "out_of_range", "A configured limit was exceeded."},
	{"E_TRANSFER_FAILED", "aborted", "A value transfer did not complete."},
	{"E_ASSERTION_FAILED", "internal", "An internal invariant was violated."},
}

// ErrorCatalog assigns stable abort codes. Standard names are seeded in a
// fixed order; custom errors and unclassified messages extend the code
// space after them in first-use order.
type ErrorCatalog struct {
	entries    []*CatalogEntry
	byName     map[string]*CatalogEntry
	classifier Classifier
	next       uint64
}

// NewErrorCatalog seeds the standard errors. A nil classifier selects the
// built-in regex rules.
func NewErrorCatalog(classifier Classifier) *ErrorCatalog {
	if classifier == nil {
		classifier = NewRegexClassifier()
	}
	c := &ErrorCatalog{
		byName:     map[string]*CatalogEntry{},
		classifier: classifier,
		next:       uint64(len(standardErrors)) + 1,
	}
	for i, std := range standardErrors {
		entry := &CatalogEntry{
			Name:     std.name,
			Code:     uint64(i) + 1,
			Category: std.category,
			Doc:      std.doc,
		}
		c.entries = append(c.entries, entry)
		c.byName[std.name] = entry
	}
	return c
}

// Classify resolves a revert message to a catalog entry, marking it
// referenced. Messages outside the classifier's rules get a slug entry
// derived from the message text; an empty message is an assertion failure.
func (c *ErrorCatalog) Classify(message string) *CatalogEntry {
	if message == "" {
		return c.reference("E_ASSERTION_FAILED")
	}
	if name, ok := c.classifier.Classify(message); ok {
		if entry := c.byName[name]; entry != nil {
			entry.Referenced = true
			return entry
		}
	}
	return c.ensure(slugErrorName(message), "invalid_argument", message)
}

// Ensure registers a declared custom error under its normalized name,
// reusing a standard entry when the names coincide, and marks it used.
func (c *ErrorCatalog) Ensure(sourceName string) *CatalogEntry {
	return c.ensure(normalizeErrorName(sourceName), "invalid_argument",
		"Declared error "+sourceName+".")
}

// Declare registers a custom error without marking it referenced, so its
// code is fixed by declaration order rather than first revert.
func (c *ErrorCatalog) Declare(sourceName string) *CatalogEntry {
	name := normalizeErrorName(sourceName)
	if entry := c.byName[name]; entry != nil {
		return entry
	}
	entry := c.ensure(name, "invalid_argument", "Declared error "+sourceName+".")
	entry.Referenced = false
	return entry
}

// Get returns a catalog entry by Move name without marking it referenced.
func (c *ErrorCatalog) Get(name string) *CatalogEntry {
	return c.byName[name]
}

// Reference marks a standard entry used and returns it.
func (c *ErrorCatalog) reference(name string) *CatalogEntry {
	entry := c.byName[name]
	entry.Referenced = true
	return entry
}

func (c *ErrorCatalog) ensure(name, category, doc string) *CatalogEntry {
	if entry := c.byName[name]; entry != nil {
		entry.Referenced = true
		return entry
	}
	entry := &CatalogEntry{
		Name:       name,
		Code:       c.next,
		Category:   category,
		Doc:        doc,
		Referenced: true,
	}
	c.next++
	c.entries = append(c.entries, entry)
	c.byName[name] = entry
	return entry
}

// Entries returns the catalog in code order: every entry when all is set,
// otherwise only the referenced ones.
func (c *ErrorCatalog) Entries(all bool) []*CatalogEntry {
	if all {
		return c.entries
	}
	var out []*CatalogEntry
	for _, e := range c.entries {
		if e.Referenced {
			out = append(out, e)
		}
	}
	return out
}

// normalizeErrorName converts a declared error identifier to the catalog
// spelling. Example: InsufficientBalance becomes E_INSUFFICIENT_BALANCE.
func normalizeErrorName(name string) string {
	upper := screamingName(name)
	if strings.HasPrefix(upper, "E_") {
		return upper
	}
	if strings.HasPrefix(upper, "ERR_") {
		return "E_" + strings.TrimPrefix(upper, "ERR_")
	}
	if strings.HasPrefix(upper, "ERROR_") {
		return "E_" + strings.TrimPrefix(upper, "ERROR_")
	}
	return "E_" + upper
}

var slugFiller = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"to": true, "of": true, "in": true, "for": true, "be": true,
	"was": true, "has": true, "have": true, "this": true, "that": true,
	"must": true, "should": true, "can": true, "cannot": true,
	"caller": true, "contract": true, "function": true,
}

var slugWordRe = regexp.MustCompile(`[A-Za-z0-9]+`)

// slugErrorName derives a deterministic name from an unclassified message:
// the tail past any contract-name prefix, reduced to its first significant
// words. Example: "ERC20: burn amount exceeds total supply" becomes
// E_BURN_AMOUNT_EXCEEDS_TOTAL.
func slugErrorName(message string) string {
	if i := strings.LastIndex(message, ":"); i >= 0 {
		message = message[i+1:]
	}
	var words []string
	for _, w := range slugWordRe.FindAllString(message, -1) {
		lower := strings.ToLower(w)
		if slugFiller[lower] {
			continue
		}
		words = append(words, strings.ToUpper(lower))
		if len(words) == 4 {
			break
		}
	}
	if len(words) == 0 {
		return "E_ASSERTION_FAILED"
	}
	return "E_" + strings.Join(words, "_")
}

// seedCustomErrors fixes the codes of declared custom errors by their
// declaration order, before any revert site references them.
func (t *Transformer) seedCustomErrors() {
	for _, e := range t.contract.Errors {
		t.catalog.Declare(e.Name)
	}
}

// abortCode spells a catalog entry at an abort site: the bare constant, or
// the std::error category wrapper under verbose reporting.
func (t *Transformer) abortCode(entry *CatalogEntry) moveast.Expr {
	if t.opts.ErrorReporting == config.ReportVerbose {
		return t.mod("error", entry.Category, moveast.NameOf(entry.Name))
	}
	return moveast.NameOf(entry.Name)
}

// classRule pairs a message pattern with its standard error. Rules are
// ordered; the first match wins, so narrower patterns come first.
type classRule struct {
	re   *regexp.Regexp
	name string
}

// RegexClassifier matches the revert-message conventions of the common
// source libraries.
type RegexClassifier struct {
	rules []classRule
}

func NewRegexClassifier() *RegexClassifier {
	mk := func(pattern, name string) classRule {
		return classRule{re: regexp.MustCompile(`(?i)` + pattern), name: name}
	}
	return &RegexClassifier{rules: []classRule{
		mk(`reentran`, "E_REENTRANCY"),
		mk(`not\s+\w*\s*paused|expected pause`, "E_NOT_PAUSED"),
		mk(`paused`, "E_PAUSED"),
		mk(`(not|un)\s*initialized`, "E_NOT_INITIALIZED"),
		mk(`initializ`, "E_ALREADY_INITIALIZED"),
		mk(`insufficient\s+\w*\s*(balance|funds)|exceeds\s+(the\s+)?balance|balance\s+too\s+low`, "E_INSUFFICIENT_BALANCE"),
		mk(`allowance`, "E_INSUFFICIENT_ALLOWANCE"),
		mk(`zero\s+address|address\s*\(\s*0\s*\)`, "E_ZERO_ADDRESS"),
		mk(`zero\s+(amount|value)|(amount|value)\s+\w*\s*zero`, "E_ZERO_AMOUNT"),
		mk(`overflow`, "E_OVERFLOW"),
		mk(`underflow`, "E_UNDERFLOW"),
		mk(`divi\w*\s+by\s+zero|division by`, "E_DIVISION_BY_ZERO"),
		mk(`not\s+found|does\s?n.t\s+exist|nonexistent`, "E_NOT_FOUND"),
		mk(`already\s+exist|duplicate`, "E_ALREADY_EXISTS"),
		mk(`expired|deadline|too\s+late`, "E_EXPIRED"),
		mk(`not\s+(the\s+)?owner|only\s*owner|ownable`, "E_NOT_OWNER"),
		mk(`authoriz|access\s*(denied|control)|forbidden|missing\s+role|only\s+(admin|minter|governor)`, "E_NOT_AUTHORIZED"),
		mk(`transfer\s+fail`, "E_TRANSFER_FAILED"),
		mk(`exceed|limit|cap\s+reached|too\s+(high|large|many|big)`, "E_LIMIT_EXCEEDED"),
		mk(`(invalid|wrong|bad)\s+state|not\s+active|not\s+open`, "E_INVALID_STATE"),
		mk(`invalid|malformed|wrong`, "E_INVALID_ARGUMENT"),
	}}
}

// Classify returns the first matching standard error name.
func (rc *RegexClassifier) Classify(message string) (string, bool) {
	for _, rule := range rc.rules {
		if rule.re.MatchString(message) {
			return rule.name, true
		}
	}
	return "", false
}
