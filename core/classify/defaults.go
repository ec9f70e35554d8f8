package classify

import "sync"

// keywords expands a keyword list into rules sharing a category and target.
// Each rule is tagged with its keyword unless a tag is given.
func keywords(category Category, target Target, tag string, words ...string) []Rule {
	rules := make([]Rule, len(words))
	for i, w := range words {
		t := tag
		if t == "" {
			t = w
		}
		rules[i] = Rule{Category: category, Target: target, Keyword: w, Tag: t}
	}
	return rules
}

// defaultRules is the built-in rule set. Feature is listed before refactor and
// bugfix, so "add fix" classifies as a feature.
var defaultRules = concat(
	keywords(Feature, MessageTarget, "", "feat", "add", "implement", "create", "new"),
	keywords(Refactor, MessageTarget, "", "refactor", "cleanup", "reorganize", "restructure", "optimize"),
	keywords(Bugfix, MessageTarget, "", "fix", "bug", "patch", "resolve", "correct"),

	keywords(Performance, PathTarget, "database", "database", "db", "query", "sql", "migration", "index", "schema", "model", "repository"),
	keywords(Performance, PathTarget, "cache", "cache", "redis", "memcache"),
	keywords(Performance, PathTarget, "tuning", "performance", "optimization"),
	keywords(Performance, MessageTarget, "database", "query", "database", "index"),
	keywords(Performance, MessageTarget, "cache", "cache", "memory"),
	keywords(Performance, MessageTarget, "tuning", "performance", "optimize", "slow", "speed", "latency"),

	keywords(FeatureFlag, MessageTarget, "", "feature flag", "feature toggle", "flag", "toggle", "experiment", "a/b test", "rollout"),
	keywords(FeatureFlag, PathTarget, "", "flag", "toggle", "experiment", "config"),
	keywords(FlagIntroduction, MessageTarget, "", "add", "implement"),
	keywords(FlagRemoval, MessageTarget, "", "remove", "cleanup", "delete"),

	keywords(MaturityFeature, MessageTarget, "", "feat", "add", "implement"),
	keywords(Maintenance, MessageTarget, "", "fix", "bug", "patch"),

	keywords(Infrastructure, PathTarget, "container", "docker"),
	keywords(Infrastructure, PathTarget, "orchestration", "kubernetes", "k8s", "helm"),
	keywords(Infrastructure, PathTarget, "provisioning", "terraform", "ansible", "chef", "puppet", "infrastructure"),
	keywords(Infrastructure, PathTarget, "deployment", "deploy"),
	keywords(Infrastructure, PathTarget, "config", "config", "yml", "yaml", "json", "env"),
	[]Rule{{Category: Infrastructure, Target: PathTarget, Regex: `^\.`, Tag: "dotfile"}},
)

func concat(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var (
	defaultOnce       sync.Once
	defaultClassifier *Classifier
)

// DefaultRules returns a copy of the built-in rule set.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Default returns the shared classifier built from the built-in rules.
func Default() *Classifier {
	defaultOnce.Do(func() {
		c, err := New(defaultRules)
		if err != nil {
			panic(err)
		}
		defaultClassifier = c
	})
	return defaultClassifier
}
