//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"parkshare/internal/domain/availability"
	"parkshare/internal/domain/resource"
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

type ResourceHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	auth             *authFixture
	mockCtrl         *gomock.Controller
	mockCommands     *commandsmock.MockResourceCommands
	mockAvailability *commandsmock.MockAvailabilityCommands
	mockQueries      *queriesmock.MockResourceQueries
	mockReservations *queriesmock.MockReservationQueries
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	s.auth = newAuthFixture(s.T())
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockResourceCommands(s.mockCtrl)
	s.mockAvailability = commandsmock.NewMockAvailabilityCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	s.mockReservations = queriesmock.NewMockReservationQueries(s.mockCtrl)
	h := api.NewResourceHandler(s.mockCommands, s.mockAvailability, s.mockQueries, s.mockReservations)

	requireAuth := s.auth.middleware.RequireAuth()
	r := s.router.Group("/resources")
	r.POST("", requireAuth, s.auth.middleware.RequireRoleAtLeast(user.RoleOwner), h.Create)
	r.GET("", h.List)
	r.GET("/mine", requireAuth, s.auth.middleware.RequireRoleAtLeast(user.RoleOwner), h.ListMine)
	r.GET("/:id", h.Get)
	r.PATCH("/:id", requireAuth, h.Update)
	r.DELETE("/:id", requireAuth, h.Delete)
	r.GET("/:id/availability", h.ListAvailability)
	r.POST("/:id/availability", requireAuth, h.AddWindow)
	r.DELETE("/:id/availability/:windowId", requireAuth, h.RemoveWindow)
	r.GET("/:id/reservations", requireAuth, h.ListReservations)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func (s *ResourceHandlerTestSuite) TestCreate() {
	url := "/resources"
	owner := s.auth.login(s.T(), user.RoleOwner)
	b := builder.NewResourceBuilder().WithOwner(owner.ID).WithHourlyRateCents(1050)
	reqBody := b.BuildCreateRequestDTO()

	s.Run("success: 201 with location and decimal rate", func() {
		s.mockCommands.EXPECT().
			CreateResource(gomock.Any(), reqBody.ToCommand(), shared.Actor{ID: owner.ID, Role: user.RoleOwner}).
			Return(b.BuildView(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, owner.Token)

		var response resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("10.50", response.HourlyRate)
		s.Equal(owner.ID, response.OwnerID)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/resources/" + b.ID.String()})
	})

	s.Run("error: 403 for renters before reaching the command", func() {
		renter := s.auth.login(s.T(), user.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("success: admins pass the role check", func() {
		admin := s.auth.login(s.T(), user.RoleAdmin)
		s.mockCommands.EXPECT().CreateResource(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(b.BuildView(), nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, admin.Token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 400 lists failed fields", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("name", nil), testutil.Field("hourly_rate", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, owner.Token)
		httptest.AssertFieldErrors(s.T(), rec, map[string]string{"Name": "required", "HourlyRate": "required"})
	})

	s.Run("error: 400 when the domain rejects the rate", func() {
		s.mockCommands.EXPECT().CreateResource(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, resource.ErrNonPositiveHourlyRate).Times(1)
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("hourly_rate", "0.00"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, owner.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "hourly rate must be positive")
	})
}

func (s *ResourceHandlerTestSuite) TestList() {
	view := builder.NewResourceBuilder().BuildView()

	s.Run("success: public read forwards cursor and limit", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), &queries.Cursor{After: "abc"}, 5).
			Return(&queries.ResourcePage{Items: []*queries.ResourceView{view}, Next: &queries.Cursor{After: "next"}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources?after=abc&limit=5", nil, "")

		var response resdto.ResourceListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Items, 1)
		s.Equal(view.ID, response.Items[0].ID)
		s.Equal("10.00", response.Items[0].HourlyRate)
		s.Equal("next", response.NextCursor)
	})

	s.Run("success: empty page has no cursor", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), nil, 0).
			Return(&queries.ResourcePage{Items: []*queries.ResourceView{}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources", nil, "")

		var response resdto.ResourceListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response.Items)
		s.Empty(response.NextCursor)
	})

	s.Run("error: 400 for a malformed cursor", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), &queries.Cursor{After: "%%%"}, 0).
			Return(nil, queries.ErrInvalidCursor).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources?after=%25%25%25", nil, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("success: zero limit falls back to the default page size", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), nil, 0).
			Return(&queries.ResourcePage{Items: []*queries.ResourceView{}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources?limit=0", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *ResourceHandlerTestSuite) TestListMine() {
	owner := s.auth.login(s.T(), user.RoleOwner)
	view := builder.NewResourceBuilder().WithOwner(owner.ID).BuildView()

	s.Run("success: lists the caller's resources", func() {
		s.mockQueries.EXPECT().
			ListByOwner(gomock.Any(), shared.Actor{ID: owner.ID, Role: user.RoleOwner}, nil, 10).
			Return(&queries.ResourcePage{Items: []*queries.ResourceView{view}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/mine?limit=10", nil, owner.Token)

		var response resdto.ResourceListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Items, 1)
		s.Equal(owner.ID, response.Items[0].OwnerID)
	})

	s.Run("error: 403 for renters before reaching the query", func() {
		renter := s.auth.login(s.T(), user.RoleRenter)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/mine", nil, renter.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/mine", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 400 for a limit above the maximum", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/mine?limit=201", nil, owner.Token)
		httptest.AssertFieldErrors(s.T(), rec, map[string]string{"Limit": "max"})
	})
}

func (s *ResourceHandlerTestSuite) TestGet() {
	view := builder.NewResourceBuilder().BuildView()

	s.Run("success: public read", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/"+view.ID.String(), nil, "")

		var response resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.Name, response.Name)
		s.Equal("10.00", response.HourlyRate)
	})

	s.Run("error: 404 for unknown id", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, resource.ErrResourceNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/"+uuid.NewString(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 400 for malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/resources/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *ResourceHandlerTestSuite) TestUpdateAndDelete() {
	owner := s.auth.login(s.T(), user.RoleOwner)
	view := builder.NewResourceBuilder().WithOwner(owner.ID).WithHourlyRateCents(1500).BuildView()
	url := "/resources/" + view.ID.String()

	s.Run("success: partial update passes only given fields", func() {
		rate := "15.00"
		s.mockCommands.EXPECT().
			UpdateResource(gomock.Any(), view.ID, commands.UpdateResourceRequest{HourlyRate: &rate}, gomock.Any()).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"hourly_rate": rate}, owner.Token)

		var response resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("15.00", response.HourlyRate)
	})

	s.Run("error: 403 for a non-owner", func() {
		s.mockCommands.EXPECT().UpdateResource(gomock.Any(), view.ID, gomock.Any(), gomock.Any()).
			Return(nil, resource.ErrNotOwner).Times(1)
		stranger := s.auth.login(s.T(), user.RoleOwner)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"is_active": false}, stranger.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("success: delete returns 204", func() {
		s.mockCommands.EXPECT().DeleteResource(gomock.Any(), view.ID, shared.Actor{ID: owner.ID, Role: user.RoleOwner}).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, owner.Token)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: delete with pending reservations is 409", func() {
		s.mockCommands.EXPECT().DeleteResource(gomock.Any(), view.ID, gomock.Any()).
			Return(errs.Wrap(resource.ErrHasActiveReservations, "delete")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, owner.Token)
		httptest.AssertConflictReason(s.T(), rec, httperr.ReasonActiveReservations)
	})
}

func (s *ResourceHandlerTestSuite) TestAvailability() {
	owner := s.auth.login(s.T(), user.RoleOwner)
	resourceID := uuid.New()
	url := "/resources/" + resourceID.String() + "/availability"
	window := &queries.AvailabilityWindowView{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Weekday:    2,
		Start:      "08:00",
		End:        "24:00",
		Open:       true,
	}

	s.Run("success: add window defaults open to true", func() {
		s.mockAvailability.EXPECT().
			AddWindow(gomock.Any(), resourceID,
				commands.AddWindowRequest{Weekday: 2, Start: "08:00", End: "24:00", Open: true},
				shared.Actor{ID: owner.ID, Role: user.RoleOwner}).
			Return(window, nil).Times(1)
		body := map[string]any{"weekday": 2, "start": "08:00", "end": "24:00"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, owner.Token)

		var response resdto.AvailabilityWindowResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(window.ID, response.ID)
		s.Equal("24:00", response.End)
	})

	s.Run("success: weekday 0 is accepted", func() {
		s.mockAvailability.EXPECT().
			AddWindow(gomock.Any(), resourceID,
				commands.AddWindowRequest{Weekday: 0, Start: "00:00", End: "12:00", Open: false}, gomock.Any()).
			Return(window, nil).Times(1)
		body := map[string]any{"weekday": 0, "start": "00:00", "end": "12:00", "open": false}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, owner.Token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 for malformed windows", func() {
		testCases := []struct {
			name   string
			body   map[string]any
			fields map[string]string
		}{
			{
				name:   "missing weekday",
				body:   map[string]any{"start": "08:00", "end": "10:00"},
				fields: map[string]string{"Weekday": "required"},
			},
			{
				name:   "weekday out of range",
				body:   map[string]any{"weekday": 7, "start": "08:00", "end": "10:00"},
				fields: map[string]string{"Weekday": "max"},
			},
			{
				name:   "clock time not HH:MM",
				body:   map[string]any{"weekday": 1, "start": "8am", "end": "25:00"},
				fields: map[string]string{"Start": "hhmm", "End": "hhmm"},
			},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, owner.Token)
				httptest.AssertFieldErrors(s.T(), rec, tc.fields)
			})
		}
	})

	s.Run("error: 400 for an empty window from the domain", func() {
		s.mockAvailability.EXPECT().AddWindow(gomock.Any(), resourceID, gomock.Any(), gomock.Any()).
			Return(nil, availability.ErrEmptyWindow).Times(1)
		body := map[string]any{"weekday": 1, "start": "10:00", "end": "10:00"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, owner.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "window start must be before end")
	})

	s.Run("success: list is public", func() {
		s.mockQueries.EXPECT().ListAvailability(gomock.Any(), resourceID).
			Return([]*queries.AvailabilityWindowView{window}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.AvailabilityWindowResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 1)
		s.Equal(2, response[0].Weekday)
	})

	s.Run("success: remove window", func() {
		s.mockAvailability.EXPECT().RemoveWindow(gomock.Any(), resourceID, window.ID, gomock.Any()).
			Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url+"/"+window.ID.String(), nil, owner.Token)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: remove unknown window is 404", func() {
		s.mockAvailability.EXPECT().RemoveWindow(gomock.Any(), resourceID, gomock.Any(), gomock.Any()).
			Return(availability.ErrWindowNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url+"/"+uuid.NewString(), nil, owner.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})
}

func (s *ResourceHandlerTestSuite) TestListReservations() {
	owner := s.auth.login(s.T(), user.RoleOwner)
	resourceID := uuid.New()
	url := "/resources/" + resourceID.String() + "/reservations"
	item := builder.NewReservationBuilder().WithResource(resourceID, owner.ID).BuildView()

	s.Run("success: forwards cursor and limit", func() {
		s.mockReservations.EXPECT().
			ListByResource(gomock.Any(), shared.Actor{ID: owner.ID, Role: user.RoleOwner}, resourceID, &queries.Cursor{After: "abc"}, 5).
			Return(&queries.ReservationPage{Items: []*queries.ReservationView{item}, Next: &queries.Cursor{After: "next"}}, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=abc&limit=5", nil, owner.Token)

		var response resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Items, 1)
		s.Equal("20.00", response.Items[0].Cost)
		s.Equal("next", response.NextCursor)
	})

	s.Run("error: 403 for another owner", func() {
		s.mockReservations.EXPECT().ListByResource(gomock.Any(), gomock.Any(), resourceID, nil, 0).
			Return(nil, resource.ErrNotOwner).Times(1)
		stranger := s.auth.login(s.T(), user.RoleOwner)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, stranger.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 400 for a limit above the maximum", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=201", nil, owner.Token)
		httptest.AssertFieldErrors(s.T(), rec, map[string]string{"Limit": "max"})
	})
}
