package web

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const draftCookie = "tablebook_draft"

// DraftManager remembers the visitor's last calendar selection in a signed
// cookie so the reservation form can be prefilled across pages.
type DraftManager struct{ sc *securecookie.SecureCookie }

func NewDraftManager(hashKey, blockKey []byte) *DraftManager {
	return &DraftManager{sc: securecookie.New(hashKey, blockKey)}
}

// DraftSelection is the calendar handoff: date in catalog.DateFormat, plus
// the chosen time slot and region labels.
type DraftSelection struct {
	Date   string
	Time   string
	Region string
}

func (m *DraftManager) Set(w http.ResponseWriter, sel DraftSelection) error {
	value := map[string]string{"date": sel.Date, "time": sel.Time, "region": sel.Region}
	encoded, err := m.sc.Encode(draftCookie, value)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: draftCookie, Value: encoded, Path: "/",
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *DraftManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name: draftCookie, Value: "", Path: "/", MaxAge: -1,
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
}

func (m *DraftManager) Get(r *http.Request) (DraftSelection, bool) {
	c, err := r.Cookie(draftCookie)
	if err != nil {
		return DraftSelection{}, false
	}
	value := map[string]string{}
	if err := m.sc.Decode(draftCookie, c.Value, &value); err != nil {
		return DraftSelection{}, false
	}
	sel := DraftSelection{Date: value["date"], Time: value["time"], Region: value["region"]}
	if sel.Date == "" && sel.Time == "" && sel.Region == "" {
		return DraftSelection{}, false
	}
	return sel, true
}
