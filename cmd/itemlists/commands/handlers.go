package commands

import (
	"fmt"
	"time"

	"github.com/karupanerura/item-service/internal/lists"
	"github.com/karupanerura/item-service/model"
)

// handlers print the details of the selected item.
func (a *app) handlers() lists.Handlers {
	return lists.Handlers{
		Friend: func(f model.Friend) {
			fmt.Fprintf(a.out, "Friend %s\n  id: %s\n  phone: %s\n", f.Name, f.ID, f.Phone)
		},
		Card: func(c model.Card) {
			fmt.Fprintf(a.out, "Card %s\n  id: %s\n  holder: %s\n", c.Number, c.ID, c.Holder)
		},
		Transfer: func(t model.Transfer) {
			fmt.Fprintf(a.out, "Transfer %s\n  id: %s\n  amount: %s %s\n  from: %s\n  to: %s\n  date: %s\n",
				t.Description, t.ID, t.Amount.StringFixed(2), t.Currency, t.Sender, t.Recipient, t.Date.Format(time.DateTime))
		},
	}
}
