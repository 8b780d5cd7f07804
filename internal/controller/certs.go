package controller

import (
	"context"
	"log/slog"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
)

const (
	msgNoCertProgress = "No certification progress found."
	msgCertMalformed  = "Failed to load certification progress"
	actionCertFetch   = "Error fetching certification progress"
)

// CertProgressState is the certification progress screen.
type CertProgressState struct {
	Status view.Status
	Certs  []view.CertRow
	List   view.ListState
	Notice view.Notice
	Route  view.Route
}

// CertProgressController shows only the certification part of the profile.
type CertProgressController struct {
	api    API
	store  *session.Store
	logger *slog.Logger
	lt     lifetime
	state  slot[CertProgressState]
}

func NewCertProgressController(api API, store *session.Store, logger *slog.Logger) *CertProgressController {
	return &CertProgressController{api: api, store: store, logger: loggerOrDefault(logger), lt: newLifetime()}
}

func (c *CertProgressController) State() CertProgressState { return c.state.get() }
func (c *CertProgressController) Close()                   { c.lt.close() }

func (c *CertProgressController) Load(ctx context.Context) CertProgressState {
	if c.lt.closed() {
		return c.State()
	}

	userID, ok := gate(c.store)
	if !ok {
		c.state.set(func(s *CertProgressState) {
			*s = CertProgressState{}
			s.Status, s.Notice, s.Route = unauthenticated()
		})
		return c.State()
	}

	gen := c.state.begin(func(s *CertProgressState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
		s.Route = view.RouteNone
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	snap, err := c.api.GetProfile(reqCtx, userID)

	applied := c.state.commit(c.lt, reqCtx, gen, func(s *CertProgressState) {
		if err != nil {
			msg := badgeapi.Describe(err, actionCertFetch)
			if badgeapi.IsMalformed(err) {
				msg = msgCertMalformed
			}
			*s = CertProgressState{Status: view.Failed, Certs: []view.CertRow{}, Notice: view.Alert(msg)}
			return
		}
		s.Certs = view.CertRows(snap.Certifications)
		s.List = view.ListStateOf(len(snap.Certifications))
		if s.List == view.EmptyList {
			s.Status = view.Empty
			s.Notice = view.Info(msgNoCertProgress)
			return
		}
		s.Status = view.Success
	})

	if !applied {
		c.logger.Debug("certs: stale response dropped", slog.Int64("user_id", userID))
	} else if err != nil {
		c.logger.Warn("certs: load failed", slog.Int64("user_id", userID), "err", err)
	}
	return c.State()
}
