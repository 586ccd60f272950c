package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/store"
)

const (
	directorySize = 4096
	directoryTTL  = 5 * time.Minute
)

// UserDirectory resolves user ids to their public brief. Users have no rename
// endpoint, so a short-lived cache is safe.
type UserDirectory interface {
	Lookup(ctx context.Context, ids ...int64) (map[int64]*model.UserBrief, error)
}

type userDirectory struct {
	users store.UserStore
	cache *expirable.LRU[int64, model.UserBrief]
}

func NewUserDirectory(users store.UserStore) UserDirectory {
	return &userDirectory{
		users: users,
		cache: expirable.NewLRU[int64, model.UserBrief](directorySize, nil, directoryTTL),
	}
}

// Lookup returns briefs keyed by id. Ids that no longer exist are absent from the map.
func (d *userDirectory) Lookup(ctx context.Context, ids ...int64) (map[int64]*model.UserBrief, error) {
	out := make(map[int64]*model.UserBrief, len(ids))
	var missing []int64
	for _, userID := range ids {
		if _, seen := out[userID]; seen {
			continue
		}
		if brief, ok := d.cache.Get(userID); ok {
			out[userID] = &brief
			continue
		}
		out[userID] = nil
		missing = append(missing, userID)
	}

	if len(missing) > 0 {
		users, err := d.users.ListByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("resolving users: %w", err)
		}
		for i := range users {
			brief := users[i].Brief()
			d.cache.Add(brief.ID, *brief)
			out[brief.ID] = brief
		}
	}

	for userID, brief := range out {
		if brief == nil {
			delete(out, userID)
		}
	}
	return out, nil
}
