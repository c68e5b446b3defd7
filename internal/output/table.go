package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/appscope/appscope/internal/core"
)

func newTable(header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(header)
	return t
}

// Apps renders lookup results.
func Apps(format Format, apps []core.App) (string, error) {
	if format != FormatTable {
		if apps == nil {
			apps = []core.App{}
		}
		return Encode(format, apps)
	}

	t := newTable(table.Row{"ID", "Bundle", "Title", "Developer", "Version", "Price", "Score"})
	for _, app := range apps {
		t.AppendRow(table.Row{
			app.ID,
			app.BundleID,
			truncate(app.Title, 40),
			truncate(app.Developer, 30),
			app.Version,
			priceLabel(app),
			fmt.Sprintf("%.1f (%d)", app.Score, app.Ratings),
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d apps", len(apps))})
	return t.Render(), nil
}

// Privacy renders a privacy disclosure, one row per data category.
func Privacy(format Format, appID string, details *core.PrivacyDetails) (string, error) {
	if details == nil {
		details = &core.PrivacyDetails{}
	}
	if format != FormatTable {
		return Encode(format, details)
	}

	t := newTable(table.Row{"Type", "Purpose", "Category", "Data"})
	t.SetTitle("Privacy: " + appID)
	for _, pt := range details.PrivacyTypes {
		if len(pt.DataCategories) == 0 && len(pt.Purposes) == 0 {
			t.AppendRow(table.Row{pt.PrivacyType, "", "", ""})
			continue
		}
		for _, category := range pt.DataCategories {
			t.AppendRow(table.Row{pt.PrivacyType, "", category.DataCategory, strings.Join(category.DataTypes, ", ")})
		}
		for _, purpose := range pt.Purposes {
			for _, category := range purpose.DataCategories {
				t.AppendRow(table.Row{pt.PrivacyType, purpose.Purpose, category.DataCategory, strings.Join(category.DataTypes, ", ")})
			}
		}
	}

	rendered := t.Render()
	if details.ManagePrivacyChoicesURL != "" {
		rendered += "\nManage choices: " + details.ManagePrivacyChoicesURL
	}
	return rendered, nil
}

// Markets renders the storefront table.
func Markets(format Format, markets []Market) (string, error) {
	if format != FormatTable {
		return Encode(format, markets)
	}

	t := newTable(table.Row{"Country", "Storefront"})
	for _, m := range markets {
		t.AppendRow(table.Row{m.Code, m.StoreID})
	}
	return t.Render(), nil
}

// Categories renders the genre table.
func Categories(format Format, categories []core.Category) (string, error) {
	if format != FormatTable {
		return Encode(format, categories)
	}

	t := newTable(table.Row{"Category", "ID"})
	for _, c := range categories {
		t.AppendRow(table.Row{c.Name, c.ID})
	}
	return t.Render(), nil
}

// Token renders a discovered token.
func Token(format Format, report TokenReport) (string, error) {
	if format != FormatTable {
		return Encode(format, report)
	}

	t := newTable(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"app", report.AppID})
	t.AppendRow(table.Row{"country", report.Country})
	if report.Issuer != "" {
		t.AppendRow(table.Row{"issuer", report.Issuer})
	}
	if report.ExpiresAt != "" {
		t.AppendRow(table.Row{"expires", report.ExpiresAt})
	}
	t.AppendRow(table.Row{"token", truncate(report.Token, 48)})
	return t.Render(), nil
}

// RateWindow renders the limiter state.
func RateWindow(format Format, report RateReport) (string, error) {
	if format != FormatTable {
		return Encode(format, report)
	}

	t := newTable(table.Row{"Backend", "Limit", "In Window", "Oldest", "Newest"})
	limit := "unlimited"
	if report.Limit > 0 {
		limit = fmt.Sprintf("%d/s", report.Limit)
	}
	t.AppendRow(table.Row{report.Backend, limit, report.Count, dash(report.Oldest), dash(report.Newest)})
	return t.Render(), nil
}

// NewRateReport converts a window snapshot for display.
func NewRateReport(backend string, limit int, state *core.RateWindowState) RateReport {
	report := RateReport{Backend: backend, Limit: limit}
	if state == nil {
		return report
	}
	report.Count = state.Count
	if state.Oldest != nil {
		report.Oldest = state.Oldest.UTC().Format(time.RFC3339Nano)
	}
	if state.Newest != nil {
		report.Newest = state.Newest.UTC().Format(time.RFC3339Nano)
	}
	return report
}

func priceLabel(app core.App) string {
	if app.Free {
		return "free"
	}
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", app.Price, app.Currency))
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}

func dash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
