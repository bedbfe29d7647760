// Package view renders a snapshot for the phone list layout and the
// wearable paged layout.
package view

import (
	"fmt"
	"io"
	"sort"

	"github.com/thisdougb/healthview/internal/catalog"
)

// PhoneTitle is the heading of the phone list.
const PhoneTitle = "Health Data"

// Row is one snapshot entry ready for display.
type Row struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// Rows turns a snapshot into rows sorted by name.
func Rows(snapshot map[string]string) []Row {
	rows := make([]Row, 0, len(snapshot))
	for name, value := range snapshot {
		rows = append(rows, Row{
			Name:  name,
			Value: value,
			Icon:  catalog.IconFor(name),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// View is a layout for a set of rows.
type View interface {
	Name() string
	// Model returns the layout as a value suitable for JSON encoding.
	Model(rows []Row) interface{}
	// Render writes the layout as text.
	Render(w io.Writer, rows []Row) error
}

// PhoneView is a titled list with one line per row.
type PhoneView struct{}

type PhoneModel struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

func (PhoneView) Name() string { return "phone" }

func (PhoneView) Model(rows []Row) interface{} {
	if rows == nil {
		rows = []Row{}
	}
	return PhoneModel{Title: PhoneTitle, Rows: rows}
}

func (PhoneView) Render(w io.Writer, rows []Row) error {
	width := 0
	for _, r := range rows {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}

	if _, err := fmt.Fprintln(w, PhoneTitle); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-*s  %s\n", width, r.Name, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// WatchView shows one page per row: icon, name, then value.
type WatchView struct{}

// Page is a single wearable page.
type Page struct {
	Index int    `json:"index"`
	Icon  string `json:"icon"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (WatchView) Name() string { return "watch" }

// Pages numbers rows from 1 in display order.
func (WatchView) Pages(rows []Row) []Page {
	pages := make([]Page, len(rows))
	for i, r := range rows {
		pages[i] = Page{Index: i + 1, Icon: r.Icon, Name: r.Name, Value: r.Value}
	}
	return pages
}

func (v WatchView) Model(rows []Row) interface{} {
	return v.Pages(rows)
}

func (v WatchView) Render(w io.Writer, rows []Row) error {
	pages := v.Pages(rows)
	for _, p := range pages {
		_, err := fmt.Fprintf(w, "[%d/%d] %s\n%s\n%s\n\n", p.Index, len(pages), p.Icon, p.Name, p.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

// ByName returns the view registered under name.
func ByName(name string) (View, bool) {
	switch name {
	case "phone":
		return PhoneView{}, true
	case "watch":
		return WatchView{}, true
	}
	return nil, false
}
