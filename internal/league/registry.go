package league

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/oddlab/oddeven/strategy"
)

// StrategyFactory builds a fresh strategy instance. rng may be nil for a
// time-seeded source.
type StrategyFactory func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy

// Registry is an explicit, constructor-injected table of strategy factories.
// There is deliberately no process-wide registry: whoever creates matches
// receives the registry it should draw strategies from.
type Registry struct {
	factories map[string]StrategyFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]StrategyFactory)}
}

// Register adds a factory under name. Duplicate names are rejected so two
// components cannot silently shadow each other's strategies.
func (r *Registry) Register(name string, f StrategyFactory) error {
	if name == "" || f == nil {
		return fmt.Errorf("registry: name and factory must be non-empty")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("registry: strategy %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Create instantiates the named strategy.
func (r *Registry) Create(name string, cfg strategy.Config, rng *rand.Rand) (strategy.Strategy, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown strategy %q", name)
	}
	return f(cfg, rng), nil
}

// Names returns the registered strategy names, sorted for stable iteration.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry preloaded with every built-in strategy.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	builtins := map[string]StrategyFactory{
		"nash": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewNash(cfg, rng)
		},
		"best_response": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewBestResponse(cfg, rng)
		},
		"adaptive_bayesian": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewAdaptiveBayesian(cfg, rng)
		},
		"fictitious_play": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewFictitiousPlay(cfg, rng)
		},
		"regret_matching": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewRegretMatching(cfg, rng)
		},
		"ucb": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewUCB(cfg, rng)
		},
		"thompson_sampling": func(cfg strategy.Config, rng *rand.Rand) strategy.Strategy {
			return strategy.NewThompsonSampling(cfg, rng)
		},
	}
	for name, f := range builtins {
		// Names are unique by construction; Register cannot fail here.
		_ = r.Register(name, f)
	}
	return r
}
