package controller_test

import (
	"context"
	"errors"
	"testing"

	"github.com/garnizeh/badgeclient/internal/controller"
	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
	"github.com/garnizeh/badgeclient/pkg/models"
)

func TestSettings_Prefill(t *testing.T) {
	api := newFakeAPI()
	api.profile = &models.ProfileSnapshot{User: models.User{UserID: 7, Username: "ada", FullName: models.StringPtr("Ada")}}
	c := controller.NewSettingsController(api, newStore(t, 7), nil)
	defer c.Close()

	st := c.Prefill(context.Background())
	if st.Status != view.Success || st.FullName != "Ada" || st.Bio != "" {
		t.Fatalf("unexpected form: %+v", st)
	}
}

func TestSettings_PrefillFailure(t *testing.T) {
	api := newFakeAPI()
	api.profileErr = &badgeapi.MalformedResponseError{Reason: "empty body"}
	c := controller.NewSettingsController(api, newStore(t, 7), nil)
	defer c.Close()

	st := c.Prefill(context.Background())
	if st.Status != view.Failed || st.Notice.Message != "Failed to load current settings" {
		t.Fatalf("unexpected form: %+v", st)
	}
}

func TestSettings_SubmitBlankSendsNulls(t *testing.T) {
	api := newFakeAPI()
	api.update = models.BasicResult{Message: "Profile updated successfully"}
	c := controller.NewSettingsController(api, newStore(t, 7), nil)
	defer c.Close()

	st := c.Submit(context.Background(), "   ", "")
	if st.Status != view.Success || st.Notice.Message != "Profile updated successfully" {
		t.Fatalf("unexpected submission: %+v", st)
	}
	if len(api.updates) != 1 || api.updates[0].FullName != nil || api.updates[0].ProfileBio != nil {
		t.Fatalf("blank fields must be sent as null: %+v", api.updates)
	}
}

func TestSettings_SubmitTrims(t *testing.T) {
	api := newFakeAPI()
	c := controller.NewSettingsController(api, newStore(t, 7), nil)
	defer c.Close()

	st := c.Submit(context.Background(), "  Ada Lovelace ", "\tMath\n")
	if st.Notice.Message != "Settings saved successfully" {
		t.Fatalf("empty server message must fall back: %+v", st.Notice)
	}
	sent := st.Sent
	if models.Deref(sent.FullName) != "Ada Lovelace" || models.Deref(sent.ProfileBio) != "Math" {
		t.Fatalf("unexpected request: %+v", sent)
	}
}

func TestSettings_SubmitWithoutPrefill(t *testing.T) {
	api := newFakeAPI()
	api.profileErr = &badgeapi.UnreachableError{Err: errors.New("refused")}
	c := controller.NewSettingsController(api, newStore(t, 7), nil)
	defer c.Close()

	c.Prefill(context.Background())
	st := c.Submit(context.Background(), "Ada", "")
	if st.Status != view.Success || api.count("update") != 1 {
		t.Fatalf("submission must not depend on prefill: %+v", st)
	}
	if c.Form().Status != view.Failed {
		t.Fatalf("prefill state must be kept: %+v", c.Form())
	}
}

func TestSettings_SubmitFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "message", err: &badgeapi.ServerError{Status: 400, Message: "Bio too long"}, want: "Bio too long"},
		{name: "status", err: &badgeapi.ServerError{Status: 500}, want: "Failed to save settings: status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.updateErr = tt.err
			c := controller.NewSettingsController(api, newStore(t, 7), nil)
			defer c.Close()

			st := c.Submit(context.Background(), "Ada", "")
			if st.Status != view.Failed || st.Notice.Message != tt.want || !st.Notice.Error {
				t.Fatalf("unexpected submission: %+v", st)
			}
		})
	}
}

func TestSettings_RequiresSession(t *testing.T) {
	api := newFakeAPI()
	c := controller.NewSettingsController(api, newStore(t, session.NoUser), nil)
	defer c.Close()

	if st := c.Prefill(context.Background()); st.Route != view.RouteLogin {
		t.Fatalf("unexpected form: %+v", st)
	}
	if st := c.Submit(context.Background(), "Ada", "Bio"); st.Status != view.Unauthenticated {
		t.Fatalf("unexpected submission: %+v", st)
	}
	if api.count("update")+api.count("profile") != 0 {
		t.Fatalf("no request expected without identity")
	}
}
