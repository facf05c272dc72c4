package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/catalog"
)

//go:embed templates/*.html static/*
var fs embed.FS

// Server is the thin UI wrapper over the booking engine: it renders what the
// resolver and store report and forwards submissions to the desk.
type Server struct {
	Catalog  catalog.Catalog
	Store    *availability.Store
	Resolver booking.Resolver
	Desk     *booking.Desk
	Drafts   *DraftManager

	BaseURL string
}

// DayCell is one calendar day with its availability aggregate.
type DayCell struct {
	Date      string
	DayOfWeek string
	DayNumber int
	Available int
	Total     int
	Class     string
}

type formValues struct {
	Date         string
	Time         string
	Region       string
	PartySize    int
	Name         string
	Email        string
	Phone        string
	HasChildren  bool
	WantsSmoking bool
}

type tmplData struct {
	Title string
	Flash string

	Days         []DayCell
	SelectedDate string
	Grid         []availability.TimeRow
	Regions      []catalog.Region
	TimeSlots    []string

	Form          formValues
	EligibleTimes []string
	EligibleRegs  []catalog.Region

	Alternatives *altView
	Confirmation *booking.Confirmation
}

type altView struct {
	Dates   []string
	Times   []string
	Regions []catalog.Region
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/static/", http.FileServer(http.FS(fs)))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/", s.handleCalendar)
	mux.HandleFunc("/reserve", s.handleReserve)

	return mux
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := tmplData{
		Title:   "Availability",
		Regions: s.Catalog.Regions,
	}
	for _, day := range s.Catalog.Window.Days() {
		avail, total := s.Store.DaySummary(day)
		data.Days = append(data.Days, DayCell{
			Date:      day.Format(catalog.DateFormat),
			DayOfWeek: day.Format("Mon"),
			DayNumber: day.Day(),
			Available: avail,
			Total:     total,
			Class:     availabilityClass(avail, total),
		})
	}

	if sel := r.URL.Query().Get("date"); sel != "" {
		if day, err := time.Parse(catalog.DateFormat, sel); err == nil && s.Catalog.Window.Contains(day) {
			data.SelectedDate = sel
			data.Grid = s.Store.DayGrid(day)
		}
	}

	s.render(w, "templates/calendar.html", data)
}

// availabilityClass buckets a day's free ratio for calendar coloring.
func availabilityClass(available, total int) string {
	if total == 0 || available == 0 {
		return "fully-booked"
	}
	pct := available * 100 / total
	switch {
	case pct < 30:
		return "limited"
	case pct < 70:
		return "moderate"
	default:
		return "available"
	}
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderForm(w, s.prefill(r), "")
	case http.MethodPost:
		s.handleSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// prefill seeds the form from calendar query params, falling back to the
// visitor's draft cookie.
func (s *Server) prefill(r *http.Request) formValues {
	q := r.URL.Query()
	f := formValues{
		Date:      q.Get("date"),
		Time:      q.Get("time"),
		Region:    q.Get("region"),
		PartySize: 2,
	}
	if f.Date == "" && f.Time == "" && f.Region == "" {
		if sel, ok := s.Drafts.Get(r); ok {
			f.Date, f.Time, f.Region = sel.Date, sel.Time, sel.Region
		}
	}
	return f
}

func (s *Server) renderForm(w http.ResponseWriter, f formValues, flash string) {
	data := tmplData{
		Title:     "Reserve a table",
		Flash:     flash,
		Regions:   s.Catalog.Regions,
		TimeSlots: s.Catalog.TimeSlots,
		Form:      f,
	}

	if day, err := time.Parse(catalog.DateFormat, f.Date); err == nil {
		if f.Region != "" {
			data.EligibleTimes = s.Resolver.EligibleTimeSlots(day, f.Region)
		}
		if f.Time != "" && f.PartySize > 0 {
			data.EligibleRegs = s.Resolver.EligibleRegions(day, f.Time, f.PartySize, f.HasChildren, f.WantsSmoking)
		}
	}

	if flash != "" {
		data.Alternatives = s.alternatives(f)
	}

	s.render(w, "templates/reserve.html", data)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f := formValues{
		Date:         strings.TrimSpace(r.FormValue("date")),
		Time:         strings.TrimSpace(r.FormValue("time")),
		Region:       strings.TrimSpace(r.FormValue("region")),
		Name:         strings.TrimSpace(r.FormValue("name")),
		Email:        strings.TrimSpace(r.FormValue("email")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
		HasChildren:  r.FormValue("has_children") == "on",
		WantsSmoking: r.FormValue("wants_smoking") == "on",
	}
	f.PartySize, _ = strconv.Atoi(r.FormValue("party_size"))

	day, err := time.Parse(catalog.DateFormat, f.Date)
	if err != nil {
		s.renderForm(w, f, "Invalid date")
		return
	}

	_ = s.Drafts.Set(w, DraftSelection{Date: f.Date, Time: f.Time, Region: f.Region})

	conf, err := s.Desk.Commit(booking.Reservation{
		Date:         day,
		Time:         f.Time,
		PartySize:    f.PartySize,
		Region:       f.Region,
		Name:         f.Name,
		Email:        f.Email,
		Phone:        f.Phone,
		HasChildren:  f.HasChildren,
		WantsSmoking: f.WantsSmoking,
	})
	if err != nil {
		s.renderForm(w, f, "That slot is no longer available")
		return
	}

	s.Drafts.Clear(w)
	s.render(w, "templates/confirm.html", tmplData{
		Title:        "Reservation confirmed",
		Confirmation: &conf,
	})
}

func (s *Server) alternatives(f formValues) *altView {
	var day time.Time
	if d, err := time.Parse(catalog.DateFormat, f.Date); err == nil {
		day = d
	}
	alt := s.Resolver.Alternatives(booking.Draft{
		Date:         day,
		Time:         f.Time,
		Region:       f.Region,
		PartySize:    f.PartySize,
		HasChildren:  f.HasChildren,
		WantsSmoking: f.WantsSmoking,
	})
	v := &altView{Times: alt.Times, Regions: alt.Regions}
	for _, d := range alt.Dates {
		v.Dates = append(v.Dates, d.Format(catalog.DateFormat))
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, name string, data tmplData) {
	t, err := template.ParseFS(fs,
		"templates/base.html",
		name,
	)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, "render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// Start serves h until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	fmt.Printf("listening on %s\n", addr)
	return srv.ListenAndServe()
}
