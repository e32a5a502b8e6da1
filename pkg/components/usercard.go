package components

import (
	"fmt"
	"strconv"

	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/dom"
)

// UserStatus is the presence shown on a UserCard.
type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
	StatusBusy    UserStatus = "busy"
)

// UserProfile is the data shown by a UserCard.
type UserProfile struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	AvatarURL string     `json:"avatarUrl"`
	Status    UserStatus `json:"status"`
	Projects  int        `json:"projects"`
	Commits   int        `json:"commits"`
}

// UserFollow is the detail of a user-follow event.
type UserFollow struct {
	User      UserProfile
	Following bool
}

// UserMessage is the detail of a user-message event.
type UserMessage struct {
	User UserProfile
}

// UserCard renders a profile card with Follow and Message actions.
type UserCard struct {
	*component.Component
}

// NewUserCard creates a UserCard rooted at an <article> element.
func NewUserCard(doc *dom.Document, cfg Config, user UserProfile) *UserCard {
	u := &UserCard{}
	u.Component = component.New(doc, cfg.options("UserCard", "article", component.Hooks{
		InitialState: func() component.State {
			return component.Record(map[string]any{"user": user, "following": false})
		},
		Template: func(c *component.Component, _ string) string {
			return renderUserCard(userOf(c.State()), c.State().Bool("following"))
		},
		BindEvents: u.bindEvents,
		OnMount: func(c *component.Component) {
			c.Logger().Debug("user card mounted", "user", u.User().Name)
		},
		OnUnmount: func(c *component.Component) {
			c.Logger().Debug("user card unmounted", "user", u.User().Name)
		},
	}))
	u.SetAttributes(nil, map[string]string{
		"role":       "article",
		"aria-label": "User card for " + user.Name,
	})
	u.AddClass(nil, "user-card-component")
	return u
}

// User returns the displayed profile.
func (u *UserCard) User() UserProfile {
	return userOf(u.State())
}

func userOf(s component.State) UserProfile {
	v, _ := s.Get("user")
	p, _ := v.(UserProfile)
	return p
}

// Following reports whether the follow toggle is on.
func (u *UserCard) Following() bool {
	return u.State().Bool("following")
}

// UpdateUser replaces the profile and re-renders.
func (u *UserCard) UpdateUser(user UserProfile) error {
	return u.SetState(component.Record(map[string]any{"user": user}))
}

// UpdateStatus changes the presence status and re-renders.
func (u *UserCard) UpdateStatus(status UserStatus) error {
	user := u.User()
	user.Status = status
	return u.UpdateUser(user)
}

func (u *UserCard) bindEvents(c *component.Component) {
	c.Listen(`[data-action="follow"]`, "click", func(ev *dom.Event) {
		ev.PreventDefault()
		following := !c.State().Bool("following")
		_ = c.SetState(component.Record(map[string]any{"following": following}))
		c.Emit(EventUserFollow, UserFollow{User: u.User(), Following: following})
	})
	c.Listen(`[data-action="message"]`, "click", func(ev *dom.Event) {
		ev.PreventDefault()
		c.Logger().Info("opening message dialog", "user", u.User().Name)
		c.Emit(EventUserMessage, UserMessage{User: u.User()})
	})
	c.Listen(".user-avatar", "mouseenter", func(*dom.Event) { c.AddClass(nil, "avatar-hover") })
	c.Listen(".user-avatar", "mouseleave", func(*dom.Event) { c.RemoveClass(nil, "avatar-hover") })
}

func renderUserCard(user UserProfile, following bool) string {
	followLabel, followClass := "Follow", "btn btn-follow"
	if following {
		followLabel, followClass = "Following", "btn btn-follow following"
	}

	b := element.NewBuilder()
	b.DivClass("user-card-header").R(
		b.Img("class", "user-avatar", "src", user.AvatarURL, "alt", user.Name),
		b.Span("class", fmt.Sprintf("status-indicator status-%s", user.Status)),
	)
	b.DivClass("user-card-body").R(
		b.H3("class", "user-name").T(user.Name),
		b.P("class", "user-title").T(user.Title),
		b.DivClass("user-stats").R(
			b.Span("class", "stat-projects").T(strconv.Itoa(user.Projects), " projects"),
			b.Span("class", "stat-commits").T(strconv.Itoa(user.Commits), " commits"),
		),
	)
	b.DivClass("user-card-actions").R(
		b.Button("type", "button", "class", "btn btn-message", "data-action", "message").T("Message"),
		b.Button("type", "button", "class", followClass, "data-action", "follow").T(followLabel),
	)
	return b.String()
}
