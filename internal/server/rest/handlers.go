package rest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/server/services"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Pin        string `json:"pin"`
}

type loginResponse struct {
	models.User
	AccessToken string `json:"accessToken"`
}

type createUserRequest struct {
	models.UserData
	Pin         string `json:"pin,omitempty"`
	ActorUserID int64  `json:"actorUserId"`
}

type updateUserRequest struct {
	models.UserData
	ActorUserID int64  `json:"actorUserId"`
	NewPin      string `json:"newPin,omitempty"`
	CurrentPin  string `json:"currentPin,omitempty"`
}

type generateRequest struct {
	ActorUserID int64 `json:"actorUserId"`
	Year        int   `json:"year"`
	Month       int   `json:"month"`
}

type submitPlanResponse struct {
	Plan        models.Plan `json:"plan"`
	MarkedStale bool        `json:"markedStale"`
}

type updateSettingsRequest struct {
	models.SystemSettings
	ActorUserID int64 `json:"actorUserId"`
}

type updateHolidaysRequest struct {
	HolidayDates []string `json:"holidayDates"`
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", common.ErrValidation, name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", common.ErrValidation, name)
	}
	return v, nil
}

func queryPeriod(c *fiber.Ctx) (datecycle.YearMonth, error) {
	year, err := queryInt(c, "year")
	if err != nil {
		return datecycle.YearMonth{}, err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return datecycle.YearMonth{}, err
	}
	return datecycle.YearMonth{Year: year, Month: time.Month(month)}, nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad user id", common.ErrValidation)
	}
	return id, nil
}

// actorQuery reads the optional actorUserId query parameter.
func actorQuery(c *fiber.Ctx) (int64, error) {
	raw := c.Query("actorUserId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: actorUserId must be a number", common.ErrValidation)
	}
	return id, nil
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := s.svc.Users.Login(c.UserContext(), req.Identifier, req.Pin)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse{User: res.User, AccessToken: res.AccessToken})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	list, err := s.svc.Users.List(c.UserContext())
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.User{}
	}
	return c.JSON(list)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	actorID, err := actor(c, req.ActorUserID)
	if err != nil {
		return err
	}
	u, err := s.svc.Users.Create(c.UserContext(), req.UserData, req.Pin, actorID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	actorID, err := actor(c, req.ActorUserID)
	if err != nil {
		return err
	}
	u, err := s.svc.Users.Update(c.UserContext(), services.UpdateUserInput{
		ID:         id,
		Data:       req.UserData,
		ActorID:    actorID,
		NewPin:     req.NewPin,
		CurrentPin: req.CurrentPin,
	})
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	requested, err := actorQuery(c)
	if err != nil {
		return err
	}
	actorID, err := actor(c, requested)
	if err != nil {
		return err
	}
	if err := s.svc.Users.Delete(c.UserContext(), id, actorID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listPlans(c *fiber.Ctx) error {
	p, err := queryPeriod(c)
	if err != nil {
		return err
	}
	list, err := s.svc.Plans.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Plan{}
	}
	return c.JSON(list)
}

// submitPlan accepts only the caller's own plan.
func (s *Server) submitPlan(c *fiber.Ctx) error {
	var plan models.Plan
	if err := parseBody(c, &plan); err != nil {
		return err
	}
	actorID, err := actor(c, plan.UserID)
	if err != nil {
		return err
	}
	plan.UserID = actorID
	res, err := s.svc.Plans.Submit(c.UserContext(), plan, actorID)
	if err != nil {
		return err
	}
	return c.JSON(submitPlanResponse{Plan: res.Plan, MarkedStale: res.MarkedStale})
}

func (s *Server) planUpdates(c *fiber.Ctx) error {
	names, err := s.svc.Allocations.StaleUsers(c.UserContext())
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

func (s *Server) generateAllocations(c *fiber.Ctx) error {
	var req generateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	actorID, err := actor(c, req.ActorUserID)
	if err != nil {
		return err
	}
	period := datecycle.YearMonth{Year: req.Year, Month: time.Month(req.Month)}
	_, list, err := s.svc.Allocations.Generate(c.UserContext(), actorID, period)
	if err != nil {
		return err
	}
	return c.JSON(nonNilAllocations(list))
}

func (s *Server) listAllocations(c *fiber.Ctx) error {
	p, err := queryPeriod(c)
	if err != nil {
		return err
	}
	list, err := s.svc.Allocations.List(c.UserContext(), p)
	if err != nil {
		return err
	}
	return c.JSON(nonNilAllocations(list))
}

func nonNilAllocations(list []models.Allocation) []models.Allocation {
	if list == nil {
		return []models.Allocation{}
	}
	return list
}

func (s *Server) getSettings(c *fiber.Ctx) error {
	st, err := s.svc.Settings.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) updateSettings(c *fiber.Ctx) error {
	var req updateSettingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	actorID, err := actor(c, req.ActorUserID)
	if err != nil {
		return err
	}
	st, err := s.svc.Settings.Update(c.UserContext(), req.SystemSettings, actorID)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

func (s *Server) listHolidays(c *fiber.Ctx) error {
	dates, err := s.svc.Holidays.List(c.UserContext())
	if err != nil {
		return err
	}
	if dates == nil {
		dates = []string{}
	}
	return c.JSON(dates)
}

func (s *Server) updateHolidays(c *fiber.Ctx) error {
	requested, err := actorQuery(c)
	if err != nil {
		return err
	}
	actorID, err := actor(c, requested)
	if err != nil {
		return err
	}
	var req updateHolidaysRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dates, err := s.svc.Holidays.Replace(c.UserContext(), req.HolidayDates, actorID)
	if err != nil {
		return err
	}
	return c.JSON(dates)
}
