//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parkshare/internal/domain/reservation"
	"parkshare/internal/domain/user"
	"parkshare/internal/handler/api"
	resdto "parkshare/internal/handler/dto/response"
	"parkshare/internal/handler/httperr"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"
	"parkshare/tests/common/builder"
	"parkshare/tests/common/httptest"
	"parkshare/tests/common/testutil"
	commandsmock "parkshare/tests/mock/commands"
	queriesmock "parkshare/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	auth         *authFixture
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockReservationQueries
	renter       identity
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	s.auth = newAuthFixture(s.T())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	h := api.NewReservationHandler(s.mockCommands, s.mockQueries)

	r := s.router.Group("/reservations", s.auth.middleware.RequireAuth())
	r.POST("", h.Create)
	r.GET("", h.ListMine)
	r.GET("/:id", h.Get)
	r.PATCH("/:id/status", h.UpdateStatus)

	s.renter = s.auth.login(s.T(), user.RoleRenter)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"
	b := builder.NewReservationBuilder().WithRequester(s.renter.ID)
	reqBody := b.BuildCreateRequestDTO()

	s.Run("success: 201 with decimal cost", func() {
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), reqBody.ToCommand(), shared.Actor{ID: s.renter.ID, Role: user.RoleRenter}).
			Return(b.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.renter.Token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("20.00", response.Cost)
		s.Equal("booked", response.Status)
		s.True(b.Start.Equal(response.Start))
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/reservations/" + b.ID.String()})
	})

	s.Run("success: offsets are normalized to UTC", func() {
		tokyo := time.FixedZone("JST", 9*60*60)
		body := map[string]any{
			"resource_id": b.ResourceID.String(),
			"start":       b.Start.In(tokyo).Format(time.RFC3339),
			"end":         b.End.In(tokyo).Format(time.RFC3339),
		}
		s.mockCommands.EXPECT().
			CreateReservation(gomock.Any(), commands.CreateReservationRequest{ResourceID: b.ResourceID, Start: b.Start, End: b.End}, gomock.Any()).
			Return(b.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.renter.Token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 409 carries the rejection reason", func() {
		testCases := []struct {
			name   string
			err    error
			reason string
		}{
			{name: "overlap", err: reservation.ErrTimeConflict, reason: httperr.ReasonTimeConflict},
			{name: "closed hours", err: reservation.ErrOutsideAvailability, reason: httperr.ReasonOutsideAvailability},
			{name: "inactive resource", err: errs.Wrap(reservation.ErrResourceUnavailable, "admit"), reason: httperr.ReasonResourceUnavailable},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.renter.Token)
				httptest.AssertConflictReason(s.T(), rec, tc.reason)
			})
		}
	})

	s.Run("error: 400 for malformed bodies", func() {
		testCases := []struct {
			name   string
			mutate func(map[string]any)
			fields map[string]string
		}{
			{name: "missing resource", mutate: testutil.Field("resource_id", nil), fields: map[string]string{"ResourceID": "required"}},
			{name: "resource not a uuid", mutate: testutil.Field("resource_id", "spot-a"), fields: map[string]string{"ResourceID": "uuid"}},
			{name: "missing start", mutate: testutil.Field("start", nil), fields: map[string]string{"Start": "required"}},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.renter.Token)
				httptest.AssertFieldErrors(s.T(), rec, tc.fields)
			})
		}
	})

	s.Run("error: 400 for an inverted range from the domain", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, reservation.ErrInvalidTimeRange).Times(1)
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("end", b.Start.Add(-time.Hour).Format(time.RFC3339)))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid time range")
	})

	s.Run("error: 503 when the store is unavailable", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("pool closed"), errs.ErrPersistence)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusServiceUnavailable, "Service temporarily unavailable")
	})

	s.Run("error: 409 on an exhausted retry", func() {
		s.mockCommands.EXPECT().CreateReservation(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("serialization failure"), errs.ErrConcurrencyConflict)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.renter.Token)
		httptest.AssertConflictReason(s.T(), rec, httperr.ReasonConcurrencyConflict)
	})
}

func (s *ReservationHandlerTestSuite) TestListMine() {
	url := "/reservations"
	items := []*queries.ReservationView{
		builder.NewReservationBuilder().WithRequester(s.renter.ID).BuildView(),
		builder.NewReservationBuilder().WithRequester(s.renter.ID).BuildView(),
	}

	s.Run("success: first page without cursor", func() {
		s.mockQueries.EXPECT().ListByRequester(gomock.Any(), s.renter.ID, nil, 2).
			Return(&queries.ReservationPage{Items: items, Next: &queries.Cursor{After: "c2"}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=2", nil, s.renter.Token)

		var response resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Equal("c2", response.NextCursor)
	})

	s.Run("success: last page has no cursor and an empty list is []", func() {
		s.mockQueries.EXPECT().ListByRequester(gomock.Any(), s.renter.ID, &queries.Cursor{After: "c2"}, 0).
			Return(&queries.ReservationPage{}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=c2", nil, s.renter.Token)

		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})

	s.Run("error: 400 for an invalid cursor", func() {
		s.mockQueries.EXPECT().ListByRequester(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=garbage", nil, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 for a negative limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=-1", nil, s.renter.Token)
		httptest.AssertFieldErrors(s.T(), rec, map[string]string{"Limit": "min"})
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	view := builder.NewReservationBuilder().WithRequester(s.renter.ID).BuildView()
	url := "/reservations/" + view.ID.String()

	s.Run("success: visible to the requester", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), shared.Actor{ID: s.renter.ID, Role: user.RoleRenter}, view.ID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.renter.Token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.ResourceName, response.ResourceName)
	})

	s.Run("error: 403 for a stranger", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), view.ID).
			Return(nil, queries.ErrReservationAccess).Times(1)
		stranger := s.auth.login(s.T(), user.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, stranger.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 404 for unknown id", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, reservation.ErrReservationNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+uuid.NewString(), nil, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *ReservationHandlerTestSuite) TestUpdateStatus() {
	view := builder.NewReservationBuilder().WithRequester(s.renter.ID).WithStatus("cancelled").BuildView()
	url := "/reservations/" + view.ID.String() + "/status"

	s.Run("success: cancel", func() {
		s.mockCommands.EXPECT().
			UpdateReservationStatus(gomock.Any(), view.ID, "cancelled", shared.Actor{ID: s.renter.ID, Role: user.RoleRenter}).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "cancelled"}, s.renter.Token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 409 invalid transition names both states", func() {
		cancelled := builder.NewReservationBuilder().WithStatus("cancelled").BuildDomain()
		_, transitionErr := cancelled.TransitionTo(reservation.StatusBooked, builder.FixedNow, 0)
		s.Require().Error(transitionErr)
		s.mockCommands.EXPECT().UpdateReservationStatus(gomock.Any(), view.ID, "booked", gomock.Any()).
			Return(nil, transitionErr).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "booked"}, s.renter.Token)
		httptest.AssertConflictReason(s.T(), rec, httperr.ReasonInvalidTransition)
		s.Contains(rec.Body.String(), "cancelled")
	})

	s.Run("error: 403 when forcing without permission", func() {
		s.mockCommands.EXPECT().UpdateReservationStatus(gomock.Any(), view.ID, "active", gomock.Any()).
			Return(nil, commands.ErrStatusChangeForbidden).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "active"}, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 400 for unknown status", func() {
		s.mockCommands.EXPECT().UpdateReservationStatus(gomock.Any(), view.ID, "parked", gomock.Any()).
			Return(nil, reservation.ErrInvalidStatus).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "parked"}, s.renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid reservation status")
	})

	s.Run("error: 400 for missing status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, s.renter.Token)
		httptest.AssertFieldErrors(s.T(), rec, map[string]string{"Status": "required"})
	})
}
