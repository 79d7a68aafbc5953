package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/rpc"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
)

func asUser(id int64) context.Context {
	return withPrincipal(context.Background(), auth.Principal{UserID: id})
}

func TestActor(t *testing.T) {
	s := newTestServer(&fakeServices{})

	_, err := s.actor(context.Background(), 0)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	id, err := s.actor(asUser(3), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	id, err = s.actor(asUser(3), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	_, err = s.actor(asUser(3), 4)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestListPlans_PassesPeriod(t *testing.T) {
	f := &fakeServices{}
	s := newTestServer(f)

	resp, err := s.ListPlans(asUser(3), &rpc.PeriodRequest{Year: 2025, Month: 9})
	require.NoError(t, err)
	require.Len(t, resp.Plans, 1)
	assert.Equal(t, datecycle.YearMonth{Year: 2025, Month: time.September}, f.lastPeriod)
}

func TestSubmitPlan_ForeignUserRefused(t *testing.T) {
	s := newTestServer(&fakeServices{})
	req := &rpc.SubmitPlanRequest{}
	req.Plan.UserID = 4

	_, err := s.SubmitPlan(asUser(3), req)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestListAllocations_EmptyListIsNotNil(t *testing.T) {
	s := newTestServer(&fakeServices{})

	resp, err := s.ListAllocations(asUser(3), &rpc.PeriodRequest{Year: 2025, Month: 6})
	require.NoError(t, err)
	assert.NotNil(t, resp.Allocations)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, 6, resp.Month)
}

func TestGenerateAllocations_ExplicitPeriod(t *testing.T) {
	f := &fakeServices{}
	s := newTestServer(f)

	resp, err := s.GenerateAllocations(asUser(2), &rpc.GenerateRequest{Year: 2026, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 1, resp.Month)
	assert.Equal(t, "2026-01-01", resp.Allocations[0].Date)
	assert.Equal(t, int64(2), f.lastActor)
}

func TestUpdateHolidays_ServiceErrorMapped(t *testing.T) {
	f := &fakeServices{err: context.DeadlineExceeded}
	s := newTestServer(f)

	_, err := s.UpdateHolidays(asUser(2), &rpc.UpdateHolidaysRequest{Dates: []string{"bad"}})
	require.Equal(t, codes.Internal, status.Code(err))
}
