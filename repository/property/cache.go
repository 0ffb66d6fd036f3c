package propertyrepo

import (
	"context"
	"strconv"
	"time"

	"staybook/model"

	"github.com/karlseguin/ccache/v3"
)

const approvedKey = "approved"

// Cached serves Get and ListApproved from an in-process LRU with a short TTL.
// It is only used on read paths; write paths read properties inside their own
// transaction.
type Cached struct {
	next   Repo
	ttl    time.Duration
	one    *ccache.Cache[*model.Property]
	listed *ccache.Cache[[]model.Property]
}

func NewCached(next Repo, size int64, ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		ttl:    ttl,
		one:    ccache.New(ccache.Configure[*model.Property]().MaxSize(size)),
		listed: ccache.New(ccache.Configure[[]model.Property]().MaxSize(1)),
	}
}

func (c *Cached) Get(ctx context.Context, id int64) (*model.Property, error) {
	item, err := c.one.Fetch(strconv.FormatInt(id, 10), c.ttl, func() (*model.Property, error) {
		return c.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p := *item.Value()
	return &p, nil
}

func (c *Cached) ListApproved(ctx context.Context) ([]model.Property, error) {
	item, err := c.listed.Fetch(approvedKey, c.ttl, func() ([]model.Property, error) {
		return c.next.ListApproved(ctx)
	})
	if err != nil {
		return nil, err
	}
	v := item.Value()
	out := make([]model.Property, len(v))
	copy(out, v)
	return out, nil
}

func (c *Cached) Stop() {
	c.one.Stop()
	c.listed.Stop()
}
