package controller

import (
	"context"
	"log/slog"
	"strings"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
	"github.com/garnizeh/badgeclient/pkg/models"
)

const (
	msgSettingsMalformed = "Failed to load current settings"
	actionSettingsFetch  = "Error fetching settings"
	msgSettingsSaved     = "Settings saved successfully"
	actionSettingsSave   = "Failed to save settings"
)

// FormState is the editable settings form after prefill.
type FormState struct {
	Status   view.Status
	FullName string
	Bio      string
	Notice   view.Notice
	Route    view.Route
}

// SubmitState is the outcome of the last submission.
type SubmitState struct {
	Status view.Status
	Sent   models.UpdateProfileRequest
	Notice view.Notice
	Route  view.Route
}

// SettingsController prefills and submits profile edits. The two phases are
// independent; a submission does not wait for prefill.
type SettingsController struct {
	api    API
	store  *session.Store
	logger *slog.Logger
	lt     lifetime
	form   slot[FormState]
	submit slot[SubmitState]
}

func NewSettingsController(api API, store *session.Store, logger *slog.Logger) *SettingsController {
	return &SettingsController{api: api, store: store, logger: loggerOrDefault(logger), lt: newLifetime()}
}

func (c *SettingsController) Form() FormState         { return c.form.get() }
func (c *SettingsController) Submission() SubmitState { return c.submit.get() }
func (c *SettingsController) Close()                  { c.lt.close() }

// Prefill loads the current full name and bio into the form. Null fields
// become empty text.
func (c *SettingsController) Prefill(ctx context.Context) FormState {
	if c.lt.closed() {
		return c.Form()
	}

	userID, ok := gate(c.store)
	if !ok {
		c.form.set(func(s *FormState) {
			*s = FormState{}
			s.Status, s.Notice, s.Route = unauthenticated()
		})
		return c.Form()
	}

	gen := c.form.begin(func(s *FormState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	snap, err := c.api.GetProfile(reqCtx, userID)

	applied := c.form.commit(c.lt, reqCtx, gen, func(s *FormState) {
		if err != nil {
			msg := badgeapi.Describe(err, actionSettingsFetch)
			if badgeapi.IsMalformed(err) {
				msg = msgSettingsMalformed
			}
			s.Status = view.Failed
			s.Notice = view.Alert(msg)
			return
		}
		s.Status = view.Success
		s.FullName = models.Deref(snap.User.FullName)
		s.Bio = models.Deref(snap.User.ProfileBio)
	})

	if !applied {
		c.logger.Debug("settings: stale prefill dropped", slog.Int64("user_id", userID))
	} else if err != nil {
		c.logger.Warn("settings: prefill failed", slog.Int64("user_id", userID), "err", err)
	}
	return c.Form()
}

// Submit sends the edited fields. Text that is empty after trimming means
// "no change" and is sent as null.
func (c *SettingsController) Submit(ctx context.Context, fullName, bio string) SubmitState {
	if c.lt.closed() {
		return c.Submission()
	}

	userID, ok := gate(c.store)
	if !ok {
		c.submit.set(func(s *SubmitState) {
			*s = SubmitState{}
			s.Status, s.Notice, s.Route = unauthenticated()
		})
		return c.Submission()
	}

	req := models.UpdateProfileRequest{
		FullName:   optional(fullName),
		ProfileBio: optional(bio),
	}

	gen := c.submit.begin(func(s *SubmitState) {
		*s = SubmitState{Status: view.Loading, Sent: req}
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	res, err := c.api.UpdateProfile(reqCtx, userID, req)

	applied := c.submit.commit(c.lt, reqCtx, gen, func(s *SubmitState) {
		if err != nil {
			s.Status = view.Failed
			s.Notice = view.Alert(badgeapi.Describe(err, actionSettingsSave))
			return
		}
		msg := res.Message
		if msg == "" {
			msg = msgSettingsSaved
		}
		s.Status = view.Success
		s.Notice = view.Info(msg)
	})

	if !applied {
		c.logger.Debug("settings: stale submit dropped", slog.Int64("user_id", userID))
	} else if err != nil {
		c.logger.Warn("settings: submit failed", slog.Int64("user_id", userID), "err", err)
	} else {
		c.logger.Info("settings: profile updated", slog.Int64("user_id", userID))
	}
	return c.Submission()
}

// optional trims s and maps empty to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
