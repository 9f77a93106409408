package runner

import (
	"sort"
	"strings"

	"github.com/mrz1836/karate-runner/internal/config"
)

// scenarioFlag restricts the engine to scenarios with a given name.
const scenarioFlag = "--name"

// BuildArgs returns the full argv for one run:
//
//	<command...> <artifact> <feature> [--name <scenario>] <extra args...>
func BuildArgs(cfg config.RunnerConfig, artifact, feature, scenario string) []string {
	args := make([]string, 0, len(cfg.Command)+len(cfg.ExtraArgs)+4)
	args = append(args, cfg.Command...)
	args = append(args, artifact, feature)
	if scenario != "" {
		args = append(args, scenarioFlag, scenario)
	}
	return append(args, cfg.ExtraArgs...)
}

// MergeEnv layers configured KEY=VALUE pairs and then per-run overrides over
// base. Later layers win. Keys keep their first position in base; new keys
// are appended in sorted order.
func MergeEnv(base, configured []string, overrides map[string]string) []string {
	values := make(map[string]string, len(base)+len(configured)+len(overrides))
	order := make([]string, 0, len(base))

	set := func(key, value string) {
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = value
	}

	for _, kv := range base {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			set(key, value)
		}
	}
	for _, kv := range configured {
		if key, value, ok := strings.Cut(kv, "="); ok && key != "" {
			set(key, value)
		}
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		set(key, overrides[key])
	}

	env := make([]string, 0, len(order))
	for _, key := range order {
		env = append(env, key+"="+values[key])
	}
	return env
}
