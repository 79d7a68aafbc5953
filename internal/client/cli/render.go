package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tripshare/internal/client/dashboard"
	"github.com/dmitrijs2005/tripshare/internal/client/workspace"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	holidayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func renderTitle(v dashboard.View, period datecycle.YearMonth) string {
	return titleStyle.Render(fmt.Sprintf("%s · %s", v.Title(), period.Title()))
}

// renderBanner is empty when nobody is stale.
func renderBanner(names []string) string {
	if len(names) == 0 {
		return ""
	}
	msg := fmt.Sprintf("Plans changed after the last allocation: %s\nRun 'generate' to refresh the schedule.",
		strings.Join(names, ", "))
	return bannerStyle.Render(msg)
}

// renderCalendar draws the month with selected days and holidays marked.
func renderCalendar(period datecycle.YearMonth, plan models.Plan, holidays []string) string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(" Mo  Tu  We  Th  Fr  Sa  Su"))
	b.WriteString("\n")

	first := time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("    ", offset))

	for day := 1; day <= period.DaysIn(); day++ {
		cell := fmt.Sprintf("%3d ", day)
		switch {
		case plan.Has(day):
			cell = selectedStyle.Render(fmt.Sprintf("%3s*", strconv.Itoa(day)))
		case containsDate(holidays, period.Date(day)):
			cell = holidayStyle.Render(fmt.Sprintf("%3dh", day))
		}
		b.WriteString(cell)
		if (offset+day)%7 == 0 {
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func containsDate(dates []string, d string) bool {
	for _, x := range dates {
		if x == d {
			return true
		}
	}
	return false
}

func renderSchedule(entries []workspace.ScheduleEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No trips allocated to you this month.")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		with := "alone"
		if len(e.Companions) > 0 {
			with = "with " + strings.Join(e.Companions, ", ")
		}
		trip := e.TripType
		if trip == "" {
			trip = "-"
		}
		lines = append(lines, fmt.Sprintf("%s  %-10s booker: %-10s %s", e.Date, trip, e.Booker, with))
	}
	return strings.Join(lines, "\n")
}

func renderExpense(period datecycle.YearMonth, trips int, price, total decimal.Decimal) string {
	body := fmt.Sprintf("%s\n%d trips × %s = %s", period.Title(), trips, price.StringFixed(2), total.StringFixed(2))
	return cardStyle.Render(body)
}

func renderPlans(plans []models.Plan) string {
	if len(plans) == 0 {
		return mutedStyle.Render("No plans submitted yet.")
	}
	lines := make([]string, 0, len(plans))
	for _, p := range plans {
		name := p.UserName
		if name == "" {
			name = "user #" + strconv.FormatInt(p.UserID, 10)
		}
		days := make([]string, 0, len(p.SelectedDays))
		for _, d := range p.SelectedDays {
			days = append(days, strconv.Itoa(d))
		}
		lines = append(lines, fmt.Sprintf("%-12s %s", name, strings.Join(days, ", ")))
	}
	return strings.Join(lines, "\n")
}

func renderAllocations(allocs []models.Allocation) string {
	if len(allocs) == 0 {
		return mutedStyle.Render("No allocations for this month. Run 'generate'.")
	}
	lines := make([]string, 0, len(allocs))
	for _, a := range allocs {
		trip := a.TripType
		if trip == "" {
			trip = "-"
		}
		lines = append(lines, fmt.Sprintf("%s  %-10s booker: %-10s travelers: %s",
			a.Date, trip, a.BookerName, strings.Join(a.TravelerNames(), ", ")))
	}
	return strings.Join(lines, "\n")
}

func renderHolidays(dates []string) string {
	if len(dates) == 0 {
		return mutedStyle.Render("No holidays.")
	}
	return strings.Join(dates, "\n")
}

func renderUsers(users []models.User) string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		email := u.Email
		if email == "" {
			email = "-"
		}
		notify := ""
		if u.SendEmail {
			notify = " (email)"
		}
		lines = append(lines, fmt.Sprintf("%4d  %-16s %-28s %s%s", u.ID, u.Name, email, u.Role.Title(), notify))
	}
	return strings.Join(lines, "\n")
}

func renderSettings(s models.SystemSettings) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	body := strings.Join([]string{
		"departure label  " + s.DepartureLabel,
		"arrival label    " + s.ArrivalLabel,
		"trip price       " + s.TripPrice.StringFixed(2),
		"current month    " + onOff(s.AllocateForCurrentMonth),
		"list view login  " + onOff(s.UserListViewEnabled),
	}, "\n")
	return cardStyle.Render(body)
}

func joinBlocks(blocks ...string) string {
	nonEmpty := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			nonEmpty = append(nonEmpty, b)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, nonEmpty...)
}
