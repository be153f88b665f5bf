// Package view projects raw items into itemservice.ItemView values.
package view

import (
	"fmt"

	itemservice "github.com/karupanerura/item-service"
	"github.com/karupanerura/item-service/model"
)

const (
	longDateLayout  = "Monday, January 2, 2006 at 15:04"
	shortDateLayout = "Jan 2, 2006"
)

// Friend returns the view of a friend.
func Friend(f model.Friend, selection func()) itemservice.ItemView {
	return itemservice.ItemView{
		Title:    f.Name,
		Subtitle: f.Phone,
		Select:   selection,
	}
}

// Card returns the view of a card.
func Card(c model.Card, selection func()) itemservice.ItemView {
	return itemservice.ItemView{
		Title:    c.Number,
		Subtitle: c.Holder,
		Select:   selection,
	}
}

// Transfer returns a view function for transfers.
// Sent transfers are listed with long dates, received ones with short dates.
func Transfer(longDateStyle bool) func(model.Transfer, func()) itemservice.ItemView {
	layout := shortDateLayout
	if longDateStyle {
		layout = longDateLayout
	}
	return func(t model.Transfer, selection func()) itemservice.ItemView {
		return itemservice.ItemView{
			Title:    fmt.Sprintf("%s %s", t.Amount.StringFixed(2), t.Currency),
			Subtitle: fmt.Sprintf("%s on %s", t.Description, t.Date.Format(layout)),
			Select:   selection,
		}
	}
}
