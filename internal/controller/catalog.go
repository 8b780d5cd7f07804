package controller

import (
	"context"
	"log/slog"

	"github.com/garnizeh/badgeclient/internal/validation"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
)

const (
	msgCatalogMalformed = "Failed to load badges"
	actionCatalogFetch  = "Error fetching badges"
	msgDetailMalformed  = "Failed to load badge details"
	actionDetailFetch   = "Error fetching badge details"
	msgNoBadgeID        = "Badge ID not provided."
)

// CatalogState is the badge listing screen.
type CatalogState struct {
	Status view.Status
	Badges []view.CatalogRow
	List   view.ListState
	Notice view.Notice
}

// DetailState is the single-badge screen.
type DetailState struct {
	Status view.Status
	Badge  view.BadgeDetail
	Notice view.Notice
}

type badgeRef struct {
	BadgeID int64 `validate:"gt=0"`
}

// CatalogController loads the public badge catalog. It needs no session.
type CatalogController struct {
	api    API
	logger *slog.Logger
	lt     lifetime
	list   slot[CatalogState]
	detail slot[DetailState]
}

func NewCatalogController(api API, logger *slog.Logger) *CatalogController {
	return &CatalogController{api: api, logger: loggerOrDefault(logger), lt: newLifetime()}
}

func (c *CatalogController) List() CatalogState  { return c.list.get() }
func (c *CatalogController) Detail() DetailState { return c.detail.get() }
func (c *CatalogController) Close()              { c.lt.close() }

// LoadList fetches the catalog in server order.
func (c *CatalogController) LoadList(ctx context.Context) CatalogState {
	if c.lt.closed() {
		return c.List()
	}

	gen := c.list.begin(func(s *CatalogState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	badges, err := c.api.ListBadges(reqCtx)

	applied := c.list.commit(c.lt, reqCtx, gen, func(s *CatalogState) {
		if err != nil {
			msg := badgeapi.Describe(err, actionCatalogFetch)
			if badgeapi.IsMalformed(err) {
				msg = msgCatalogMalformed
			}
			*s = CatalogState{Status: view.Failed, Badges: []view.CatalogRow{}, Notice: view.Alert(msg)}
			return
		}
		s.Status = view.Success
		s.Badges = view.CatalogRows(badges)
		s.List = view.ListStateOf(len(badges))
	})

	if !applied {
		c.logger.Debug("catalog: stale list response dropped")
	} else if err != nil {
		c.logger.Warn("catalog: list failed", "err", err)
	}
	return c.List()
}

// LoadDetail fetches one badge with its criteria. A non-positive id is
// rejected without a request.
func (c *CatalogController) LoadDetail(ctx context.Context, badgeID int64) DetailState {
	if c.lt.closed() {
		return c.Detail()
	}

	if err := validation.Struct(badgeRef{BadgeID: badgeID}, msgNoBadgeID); err != nil {
		c.detail.set(func(s *DetailState) {
			*s = DetailState{Status: view.Failed, Notice: view.Alert(badgeapi.Describe(err, actionDetailFetch))}
		})
		return c.Detail()
	}

	gen := c.detail.begin(func(s *DetailState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	badge, err := c.api.GetBadge(reqCtx, badgeID)

	applied := c.detail.commit(c.lt, reqCtx, gen, func(s *DetailState) {
		if err != nil {
			msg := badgeapi.Describe(err, actionDetailFetch)
			if badgeapi.IsMalformed(err) {
				msg = msgDetailMalformed
			}
			*s = DetailState{Status: view.Failed, Notice: view.Alert(msg)}
			return
		}
		s.Status = view.Success
		s.Badge = view.BadgeDetailOf(*badge)
	})

	if !applied {
		c.logger.Debug("catalog: stale detail response dropped", slog.Int64("badge_id", badgeID))
	} else if err != nil {
		c.logger.Warn("catalog: detail failed", slog.Int64("badge_id", badgeID), "err", err)
	}
	return c.Detail()
}
