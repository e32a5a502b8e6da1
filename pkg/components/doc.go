// Package components provides leaf components built on package component.
//
// Each component renders its markup with github.com/rohanthewiz/element and
// reports user interaction by emitting bubbling custom events from its root,
// so page code can observe them on any ancestor:
//
//	item-click    LinkList  ItemClick{Href, Label}
//	card-action   Card      CardAction{Action}
//	user-follow   UserCard  UserFollow{User, Following}
//	user-message  UserCard  UserMessage{User}
package components

import (
	"log/slog"

	"github.com/vango-dev/fantoccini/pkg/component"
)

// Event types emitted by this package.
const (
	EventItemClick   = "item-click"
	EventCardAction  = "card-action"
	EventUserFollow  = "user-follow"
	EventUserMessage = "user-message"
)

// Config carries the shared options for every component in this package.
type Config struct {
	Scheduler component.Scheduler
	Logger    *slog.Logger
}

func (c Config) options(name, tag string, hooks component.Hooks) component.Options {
	return component.Options{
		Name:      name,
		Tag:       tag,
		Hooks:     hooks,
		Scheduler: c.Scheduler,
		Logger:    c.Logger,
	}
}
