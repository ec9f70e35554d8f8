// Package classify maps commit messages and file paths to categories using an
// ordered list of keyword or regex rules.
package classify

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups rules that detect the same kind of work.
type Category string

// Target is the text a rule inspects.
type Target string

// Built-in categories.
const (
	Feature          Category = "feature"
	Refactor         Category = "refactor"
	Bugfix           Category = "bugfix"
	Other            Category = "other"
	Performance      Category = "performance"
	FeatureFlag      Category = "feature-flag"
	FlagIntroduction Category = "flag-introduction"
	FlagRemoval      Category = "flag-removal"
	Infrastructure   Category = "infrastructure"
	MaturityFeature  Category = "maturity-feature"
	Maintenance      Category = "maintenance"
)

// Rule targets.
const (
	MessageTarget Target = "message"
	PathTarget    Target = "path"
)

// commitKinds are the categories Kind chooses between, in no particular order;
// the rule order decides which one wins.
var commitKinds = map[Category]struct{}{
	Feature:  {},
	Refactor: {},
	Bugfix:   {},
}

// Rule maps a keyword or regex to a category. Exactly one of Keyword and Regex is set.
type Rule struct {
	Category Category `yaml:"category"`
	Target   Target   `yaml:"target"`
	Keyword  string   `yaml:"keyword,omitempty"`
	Regex    string   `yaml:"regex,omitempty"`
	Tag      string   `yaml:"tag,omitempty"`
}

type compiledRule struct {
	Rule
	keyword string
	re      *regexp.Regexp
}

func (r compiledRule) matches(text string) bool {
	if r.re != nil {
		return r.re.MatchString(text)
	}
	return strings.Contains(strings.ToLower(text), r.keyword)
}

// Classifier evaluates rules in order. It is safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// New compiles a rule list.
func New(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: category is required", i)
		}
		if r.Target != MessageTarget && r.Target != PathTarget {
			return nil, fmt.Errorf("rule %d: target must be %q or %q, got %q", i, MessageTarget, PathTarget, r.Target)
		}
		if (r.Keyword == "") == (r.Regex == "") {
			return nil, fmt.Errorf("rule %d: exactly one of keyword and regex is required", i)
		}
		cr := compiledRule{Rule: r, keyword: strings.ToLower(r.Keyword)}
		if r.Regex != "" {
			re, err := regexp.Compile("(?i)" + r.Regex)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			cr.re = re
		}
		if cr.Tag == "" {
			cr.Tag = r.Keyword + r.Regex
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Rules returns a copy of the rule list.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Rule
	}
	return out
}

// Kind returns the category of the first feature, refactor or bugfix rule
// matching the message, or Other.
func (c *Classifier) Kind(message string) Category {
	for _, r := range c.rules {
		if r.Target != MessageTarget {
			continue
		}
		if _, ok := commitKinds[r.Category]; ok && r.matches(message) {
			return r.Category
		}
	}
	return Other
}

// Match returns the first rule of the category and target that matches text.
func (c *Classifier) Match(category Category, target Target, text string) (Rule, bool) {
	for _, r := range c.rules {
		if r.Category == category && r.Target == target && r.matches(text) {
			return r.Rule, true
		}
	}
	return Rule{}, false
}

// Is reports whether any rule of the category and target matches text.
func (c *Classifier) Is(category Category, target Target, text string) bool {
	_, ok := c.Match(category, target, text)
	return ok
}

// Tags returns the distinct tags of every matching rule, in rule order.
func (c *Classifier) Tags(category Category, target Target, text string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, r := range c.rules {
		if r.Category != category || r.Target != target || !r.matches(text) {
			continue
		}
		if _, ok := seen[r.Tag]; ok {
			continue
		}
		seen[r.Tag] = struct{}{}
		tags = append(tags, r.Tag)
	}
	return tags
}

// ruleFile is the YAML layout of a rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load parses a YAML rule set. Categories it defines replace the built-in
// rules of the same category, in the place of the first built-in rule of that
// category; every other built-in rule is kept. Categories with no built-in
// rules go last.
func Load(data []byte) (*Classifier, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("invalid rule file: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("rule file defines no rules")
	}
	return New(mergeRules(defaultRules, rf.Rules))
}

// mergeRules splices overrides into base by category.
func mergeRules(base, overrides []Rule) []Rule {
	byCategory := make(map[Category][]Rule)
	var order []Category
	for _, r := range overrides {
		if _, ok := byCategory[r.Category]; !ok {
			order = append(order, r.Category)
		}
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	merged := make([]Rule, 0, len(base)+len(overrides))
	placed := make(map[Category]bool)
	for _, r := range base {
		replacement, ok := byCategory[r.Category]
		if !ok {
			merged = append(merged, r)
			continue
		}
		if !placed[r.Category] {
			merged = append(merged, replacement...)
			placed[r.Category] = true
		}
	}
	for _, category := range order {
		if !placed[category] {
			merged = append(merged, byCategory[category]...)
		}
	}
	return merged
}

// LoadFile reads a YAML rule set from disk. An empty path returns Default().
func LoadFile(path string) (*Classifier, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %q: %w", path, err)
	}
	return Load(data)
}
