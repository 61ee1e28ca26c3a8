package ldes

import (
	"fmt"
	"sort"
	"strings"
)

// Variable names an environment key every consumer container receives.
type Variable string

// Consumer variables present in every built environment.
const (
	VarEndpoint     Variable = "SPARQL_ENDPOINT"
	VarTargetGraph  Variable = "TARGET_GRAPH"
	VarFollow       Variable = "FOLLOW"
	VarBatchSize    Variable = "MEMBER_BATCH_SIZE"
	VarMaterialize  Variable = "MATERIALIZE"
	VarLogLevel     Variable = "LOG_LEVEL"
	VarSource       Variable = "LDES"
	VarPollInterval Variable = "POLLING_FREQUENCY"
	VarFatalFailure Variable = "FAILURE_IS_FATAL"
	VarMode         Variable = "OPERATION_MODE"
	VarShape        Variable = "SHAPE"
)

// Fixed defaults the ldes2sparql image expects when nothing overrides them.
const (
	defaultFollow        = "false"
	defaultBatchSize     = "500"
	defaultMaterialize   = "false"
	defaultPollFrequency = "60000" // milliseconds
	defaultFatalFailure  = "false"
	defaultMode          = "Replication"
)

// graphNamespace anchors derived target graph URNs.
const graphNamespace = "kgap"

var knownVariables = map[Variable]struct{}{
	VarEndpoint:     {},
	VarTargetGraph:  {},
	VarFollow:       {},
	VarBatchSize:    {},
	VarMaterialize:  {},
	VarLogLevel:     {},
	VarSource:       {},
	VarPollInterval: {},
	VarFatalFailure: {},
	VarMode:         {},
	VarShape:        {},
}

// Environment is the fully resolved variable set for one feed's container.
// Known keys are tracked apart from pass-through extras so the required set
// stays typed while arbitrary overrides survive verbatim. Build once per
// feed; an Environment is never mutated afterwards.
type Environment struct {
	known map[Variable]string
	extra map[string]string
}

// BuildEnvironment resolves the variable set for one feed. Each known key
// takes the first value present in precedence order: the feed's explicit
// override, the feed's shorthand field, the value derived from the feed
// name, the global default. Override keys outside the known set pass
// through untouched. The function is pure: same feed and settings, same
// result.
func BuildEnvironment(feed FeedSpec, settings Settings) *Environment {
	env := &Environment{
		known: make(map[Variable]string, len(knownVariables)),
	}

	derivedGraph := fmt.Sprintf("urn:%s:%s:%s", graphNamespace, settings.GraphPrefix, feed.Name)

	env.known[VarEndpoint] = resolve(feed, VarEndpoint, "", settings.SPARQLEndpoint)
	env.known[VarTargetGraph] = resolve(feed, VarTargetGraph, feed.TargetGraph, derivedGraph)
	env.known[VarFollow] = resolve(feed, VarFollow, "", defaultFollow)
	env.known[VarBatchSize] = resolve(feed, VarBatchSize, "", defaultBatchSize)
	env.known[VarMaterialize] = resolve(feed, VarMaterialize, "", defaultMaterialize)
	env.known[VarLogLevel] = strings.ToLower(resolve(feed, VarLogLevel, "", settings.LogLevel))
	env.known[VarSource] = resolve(feed, VarSource, feed.URL, "")
	env.known[VarPollInterval] = resolve(feed, VarPollInterval, "", defaultPollFrequency)
	env.known[VarFatalFailure] = resolve(feed, VarFatalFailure, "", defaultFatalFailure)
	env.known[VarMode] = resolve(feed, VarMode, "", defaultMode)
	env.known[VarShape] = resolve(feed, VarShape, "", "")

	for key, value := range feed.Overrides {
		if _, known := knownVariables[Variable(key)]; known {
			continue
		}
		if env.extra == nil {
			env.extra = make(map[string]string)
		}
		env.extra[key] = value
	}

	return env
}

// resolve picks the value for one known variable: override, then shorthand,
// then the default.
func resolve(feed FeedSpec, v Variable, shorthand, def string) string {
	if override, ok := feed.Overrides[string(v)]; ok {
		return override
	}
	if shorthand != "" {
		return shorthand
	}
	return def
}

// Get returns the resolved value of a known variable.
func (e *Environment) Get(v Variable) string {
	return e.known[v]
}

// Lookup returns the resolved value for name, known or extra.
func (e *Environment) Lookup(name string) (string, bool) {
	if v, ok := e.known[Variable(name)]; ok {
		return v, true
	}
	v, ok := e.extra[name]
	return v, ok
}

// Len returns the number of variables, known and extra.
func (e *Environment) Len() int {
	return len(e.known) + len(e.extra)
}

// Slice renders KEY=VALUE pairs sorted by key, ready for the container
// runtime. Every key appears exactly once.
func (e *Environment) Slice() []string {
	pairs := make([]string, 0, len(e.known)+len(e.extra))
	for v, val := range e.known {
		pairs = append(pairs, string(v)+"="+val)
	}
	for k, val := range e.extra {
		pairs = append(pairs, k+"="+val)
	}
	sort.Strings(pairs)
	return pairs
}
