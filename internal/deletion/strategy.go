// Package deletion removes stored attachment objects despite uncertainty about which
// resource type the store filed them under.
package deletion

import (
	"context"
	"fmt"

	"attachapi/internal/storage"
)

// StrategyKind tags a Strategy.
type StrategyKind int

const (
	// StrategyNone marks outcomes that no strategy produced: the object was already gone.
	StrategyNone StrategyKind = iota
	// StrategyDestroy is a single delete against one resource type.
	StrategyDestroy
	// StrategyPrefix is an administrative prefix delete scoped to the key itself.
	StrategyPrefix
	// StrategyBulk is a batch delete pass; only the coordinator uses it.
	StrategyBulk
)

// Strategy is one step of the escalation ladder.
type Strategy struct {
	Kind     StrategyKind
	Resource storage.ResourceType
	Access   storage.AccessType
}

func (s Strategy) String() string {
	switch s.Kind {
	case StrategyDestroy:
		return "destroy:" + s.Resource.String()
	case StrategyPrefix:
		return fmt.Sprintf("prefix:%s/%s", s.Resource, s.Access)
	case StrategyBulk:
		return "bulk:" + s.Resource.String()
	default:
		return "none"
	}
}

// DefaultStrategies is the fixed escalation order: a single destroy per resource type, then
// a key-scoped prefix delete over every resource and access type combination.
func DefaultStrategies() []Strategy {
	out := make([]Strategy, 0, len(storage.ResourceTypes)*(1+len(storage.AccessTypes)))
	for _, rt := range storage.ResourceTypes {
		out = append(out, Strategy{Kind: StrategyDestroy, Resource: rt})
	}
	for _, rt := range storage.ResourceTypes {
		for _, at := range storage.AccessTypes {
			out = append(out, Strategy{Kind: StrategyPrefix, Resource: rt, Access: at})
		}
	}
	return out
}

// apply runs the strategy once for key and reports whether the key is gone because of it.
func (s Strategy) apply(ctx context.Context, client storage.Client, key string) (bool, error) {
	switch s.Kind {
	case StrategyDestroy:
		return client.DestroyOne(ctx, key, s.Resource)
	case StrategyPrefix:
		report, err := client.DestroyByPrefix(ctx, key, s.Resource, s.Access)
		if err != nil {
			return false, err
		}
		if ferr, ok := report.Failed[key]; ok {
			return false, ferr
		}
		for _, k := range report.Deleted {
			if k == key {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("strategy %s cannot delete a single key", s)
	}
}
