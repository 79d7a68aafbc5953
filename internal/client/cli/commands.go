package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tripshare/internal/client/client"
	"github.com/dmitrijs2005/tripshare/internal/client/dashboard"
	"github.com/dmitrijs2005/tripshare/internal/client/session"
	"github.com/dmitrijs2005/tripshare/internal/client/workspace"
	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

var errCancelled = errors.New("cancelled")

var helpByRole = map[models.Role]string{
	models.RoleUser:            "plan [days...], toggle <day>, profile",
	models.RoleAllocationAdmin: "generate, holiday <YYYY-MM-DD>, holidays",
	models.RoleSystemAdmin:     "users, adduser, edituser <id>, deluser <id>, settings, set <key> <value>",
}

func (a *App) Help() string {
	user, ok := a.ws.CurrentUser()
	if !ok {
		return "Available commands: users [search] [--desc], login [name|email|id], exit"
	}
	return fmt.Sprintf("Available commands: show, view [name], refresh, %s, logout, exit", helpByRole[user.Role])
}

// Users lists the profiles offered at login.
func (a *App) Users(_ context.Context, args []string) error {
	var search []string
	desc := false
	for _, arg := range args {
		if arg == "--desc" {
			desc = true
			continue
		}
		search = append(search, arg)
	}
	list := a.ws.LoginList(strings.Join(search, " "), desc)
	if len(list) == 0 {
		a.println("No matching profiles.")
		return nil
	}
	a.println(renderUsers(list))
	return nil
}

// Login runs whichever login flow the settings enable. In list mode the
// argument selects a profile by id; in form mode it is the identifier.
func (a *App) Login(ctx context.Context, args []string) error {
	if a.isLoggedIn() {
		return errors.New("already logged in, use logout first")
	}

	var err error
	if session.ModeFor(a.ws.Settings()) == session.ModeList {
		err = a.loginFromList(ctx, args)
	} else {
		err = a.loginWithForm(ctx, args)
	}
	if errors.Is(err, errCancelled) {
		a.println("Login cancelled.")
		return nil
	}
	if err != nil && !a.isLoggedIn() {
		return err
	}

	user, _ := a.ws.CurrentUser()
	a.println(fmt.Sprintf("Welcome, %s!", user.FirstName()))
	if err != nil {
		a.println("Dashboard did not load:", err)
		return nil
	}
	return a.Show(ctx)
}

func (a *App) loginWithForm(ctx context.Context, args []string) error {
	identifier := strings.Join(args, " ")
	if identifier == "" {
		var err error
		identifier, err = GetTextWithDefault(a.reader, "Email or name", a.ws.Session().Identifier, a.out)
		if err != nil {
			return err
		}
	}
	for {
		pin, err := GetPin("PIN (empty to cancel)", a.out)
		if err != nil {
			return err
		}
		if pin == "" {
			return errCancelled
		}
		err = a.ws.LoginWithForm(ctx, identifier, pin)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, common.ErrAuthentication):
			a.println("Wrong PIN for", identifier)
		case errors.Is(err, common.ErrValidation):
			a.println(err)
		default:
			return err
		}
	}
}

func (a *App) loginFromList(ctx context.Context, args []string) error {
	var id int64
	if len(args) > 0 {
		var err error
		if id, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("profile id expected, got %q", args[0])
		}
	} else {
		a.println(renderUsers(a.ws.LoginList("", false)))
		s, err := GetSimpleText(a.reader, "Profile id (empty to cancel)", a.out)
		if err != nil {
			return err
		}
		if s == "" {
			return errCancelled
		}
		if id, err = strconv.ParseInt(s, 10, 64); err != nil {
			return fmt.Errorf("profile id expected, got %q", s)
		}
	}
	if err := a.ws.SelectProfile(id); err != nil {
		return err
	}

	for {
		pin, err := GetPin("PIN for "+a.ws.Session().Candidate.Name+" (empty to cancel)", a.out)
		if err != nil {
			_ = a.ws.CancelLogin()
			return err
		}
		if pin == "" {
			_ = a.ws.CancelLogin()
			return errCancelled
		}
		err = a.ws.SubmitPin(ctx, pin)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, session.ErrTooManyAttempts):
			return err
		case errors.Is(err, common.ErrAuthentication):
			snap := a.ws.Session()
			a.println(fmt.Sprintf("Wrong PIN (%d failed)", snap.Failures))
		case errors.Is(err, common.ErrValidation):
			a.println(err)
		default:
			if a.ws.Session().State == session.AwaitingPin {
				_ = a.ws.CancelLogin()
			}
			return err
		}
	}
}

func (a *App) Logout(_ context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNoSession
	}
	a.ws.Logout()
	a.println("Logged out.")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.ws.Refresh(ctx); err != nil {
		return err
	}
	return a.Show(ctx)
}

// View lists the views of the current role, or switches to one of them.
func (a *App) View(ctx context.Context, args []string) error {
	user, ok := a.ws.CurrentUser()
	if !ok {
		return client.ErrNoSession
	}
	if len(args) == 0 {
		current, err := a.ws.View()
		if err != nil {
			return err
		}
		views, err := dashboard.Views(user.Role)
		if err != nil {
			return err
		}
		for _, v := range views {
			mark := " "
			if v == current {
				mark = "*"
			}
			a.println(fmt.Sprintf("%s %-20s %s", mark, v, v.Title()))
		}
		return nil
	}
	v, err := dashboard.ParseView(args[0])
	if err != nil {
		return err
	}
	if err := a.ws.SelectView(v); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Show renders the active view.
func (a *App) Show(_ context.Context) error {
	user, ok := a.ws.CurrentUser()
	if !ok {
		return client.ErrNoSession
	}
	view, err := a.ws.View()
	if err != nil {
		return err
	}
	period := a.ws.ActivePeriod()

	var body string
	switch view {
	case dashboard.TripPlanning:
		plan, _ := a.ws.MyPlan()
		body = joinBlocks(
			renderCalendar(period, plan, a.ws.Holidays()),
			renderSchedule(a.ws.MySchedule()),
			renderExpense(period, a.ws.MyTripCount(), a.ws.Settings().TripPrice, a.ws.MyExpense()),
		)
	case dashboard.ProfileEdit:
		body = renderUsers([]models.User{user})
	case dashboard.AllocationsReview:
		var banner string
		if a.ws.ShowStaleBanner() {
			banner = renderBanner(a.ws.StaleUsers())
		}
		body = joinBlocks(banner, renderPlans(a.ws.ReviewPlans()), renderAllocations(a.ws.Allocations()))
	case dashboard.HolidayCalendar:
		body = joinBlocks(renderCalendar(period, models.Plan{}, a.ws.Holidays()), renderHolidays(a.ws.Holidays()))
	case dashboard.UserManagement:
		body = renderUsers(a.ws.Users())
	case dashboard.SettingsManagement:
		body = renderSettings(a.ws.Settings())
	}
	a.println(joinBlocks(renderTitle(view, period), body))
	return nil
}

// Plan submits the given days as the plan for the active month. Without
// arguments it asks for them, offering the current selection.
func (a *App) Plan(ctx context.Context, args []string) error {
	if len(args) == 0 {
		current, _ := a.ws.MyPlan()
		s, err := GetTextWithDefault(a.reader, "Days of "+a.ws.ActivePeriod().Title(), joinDays(current.SelectedDays), a.out)
		if err != nil {
			return err
		}
		args = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	}
	days, err := parseDays(args)
	if err != nil {
		return err
	}
	return a.submitPlan(ctx, days)
}

func (a *App) submitPlan(ctx context.Context, days []int) error {
	saved, err := a.ws.SubmitPlan(ctx, days)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Plan saved: %d days.", len(saved.SelectedDays)))
	return a.Show(ctx)
}

// Toggle flips one day of the current plan and submits the result.
func (a *App) Toggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: toggle <day>")
	}
	days, err := parseDays(args)
	if err != nil {
		return err
	}
	current, _ := a.ws.MyPlan()
	return a.submitPlan(ctx, current.Toggle(days[0]).SelectedDays)
}

func (a *App) Profile(ctx context.Context) error {
	user, ok := a.ws.CurrentUser()
	if !ok {
		return client.ErrNoSession
	}
	name, err := GetTextWithDefault(a.reader, "Name", user.Name, a.out)
	if err != nil {
		return err
	}
	email, err := GetTextWithDefault(a.reader, "Email", user.Email, a.out)
	if err != nil {
		return err
	}
	send, err := GetYesNo(a.reader, "Send schedule by email", user.SendEmail, a.out)
	if err != nil {
		return err
	}
	p := workspace.ProfileUpdate{Name: name, Email: email, SendEmail: send}

	change, err := GetYesNo(a.reader, "Change PIN", false, a.out)
	if err != nil {
		return err
	}
	if change {
		if p.CurrentPin, err = GetPin("Current PIN", a.out); err != nil {
			return err
		}
		if p.NewPin, err = GetPin("New PIN", a.out); err != nil {
			return err
		}
	}

	if _, err := a.ws.UpdateProfile(ctx, p); err != nil {
		return err
	}
	a.println("Profile updated.")
	return nil
}

func (a *App) Generate(ctx context.Context) error {
	batch, err := a.ws.Generate(ctx)
	if batch == nil && err != nil {
		return err
	}
	a.println(fmt.Sprintf("Generated %d allocations for %s.", len(batch), a.ws.ActivePeriod().Title()))
	if err != nil {
		a.println("Warning:", err)
	}
	return a.Show(ctx)
}

// Holiday toggles one date in the holiday calendar.
func (a *App) Holiday(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: holiday <YYYY-MM-DD>")
	}
	saved, err := a.ws.ToggleHoliday(ctx, args[0])
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("%d holidays.", len(saved)))
	return nil
}

func (a *App) Holidays(_ context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNoSession
	}
	a.println(renderHolidays(a.ws.Holidays()))
	return nil
}

func (a *App) AddUser(ctx context.Context) error {
	data, err := a.promptUserData(models.UserData{Role: models.RoleUser})
	if err != nil {
		return err
	}
	pin, err := GetPin("Initial PIN (empty for default)", a.out)
	if err != nil {
		return err
	}
	created, err := a.ws.CreateUser(ctx, data, pin)
	if err != nil {
		return err
	}
	a.println(fmt.Sprintf("Created user #%d %s.", created.ID, created.Name))
	return nil
}

func (a *App) EditUser(ctx context.Context, args []string) error {
	user, err := a.userArg(args)
	if err != nil {
		return err
	}
	data, err := a.promptUserData(user.Data())
	if err != nil {
		return err
	}
	pin, err := GetPin("New PIN (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if _, err := a.ws.UpdateUser(ctx, user.ID, data, pin); err != nil {
		return err
	}
	a.println("User updated.")
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	user, err := a.userArg(args)
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, "Delete "+user.Name, false, a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := a.ws.DeleteUser(ctx, user.ID); err != nil {
		return err
	}
	a.println("User deleted.")
	return nil
}

func (a *App) Settings(_ context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNoSession
	}
	a.println(renderSettings(a.ws.Settings()))
	return nil
}

// Set changes one system setting.
//
//	set departure <label> | arrival <label> | price <amount>
//	set current on|off    | listview on|off
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <departure|arrival|price|current|listview> <value>")
	}
	s := a.ws.Settings()
	value := strings.Join(args[1:], " ")

	switch strings.ToLower(args[0]) {
	case "departure":
		s.DepartureLabel = value
	case "arrival":
		s.ArrivalLabel = value
	case "price":
		d, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("%w: price %q", common.ErrValidation, value)
		}
		s.TripPrice = d
	case "current":
		b, err := parseOnOff(value)
		if err != nil {
			return err
		}
		s.AllocateForCurrentMonth = b
	case "listview":
		b, err := parseOnOff(value)
		if err != nil {
			return err
		}
		s.UserListViewEnabled = b
	default:
		return fmt.Errorf("unknown setting %q", args[0])
	}

	if err := a.ws.UpdateSettings(ctx, s); err != nil {
		return err
	}
	a.println(renderSettings(a.ws.Settings()))
	return nil
}

func (a *App) promptUserData(def models.UserData) (models.UserData, error) {
	name, err := GetTextWithDefault(a.reader, "Name", def.Name, a.out)
	if err != nil {
		return def, err
	}
	email, err := GetTextWithDefault(a.reader, "Email", def.Email, a.out)
	if err != nil {
		return def, err
	}
	roleText, err := GetTextWithDefault(a.reader, "Role (User, AllocationAdmin, SystemAdmin)", def.Role.String(), a.out)
	if err != nil {
		return def, err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		return def, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	send, err := GetYesNo(a.reader, "Send schedule by email", def.SendEmail, a.out)
	if err != nil {
		return def, err
	}
	return models.UserData{Name: name, Email: email, Role: role, SendEmail: send}, nil
}

func (a *App) userArg(args []string) (models.User, error) {
	if len(args) != 1 {
		return models.User{}, errors.New("user id expected")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return models.User{}, fmt.Errorf("user id expected, got %q", args[0])
	}
	for _, u := range a.ws.Users() {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user #%d: %w", id, common.ErrorNotFound)
}

func parseDays(args []string) ([]int, error) {
	days := make([]int, 0, len(args))
	for _, s := range args {
		d, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: day %q", common.ErrValidation, s)
		}
		days = append(days, d)
	}
	return days, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes", "true":
		return true, nil
	case "off", "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected on or off, got %q", common.ErrValidation, s)
}

func joinDays(days []int) string {
	return strings.Join(intsToArgs(days), ",")
}

func intsToArgs(days []int) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, strconv.Itoa(d))
	}
	return out
}
