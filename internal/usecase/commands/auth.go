package commands

import (
	"context"
	"log/slog"

	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"
	"parkshare/internal/pkg/jwt"
	"parkshare/internal/pkg/password"
	"parkshare/internal/usecase/queries"
	"parkshare/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials   = errs.Mark(errs.New("invalid credentials"), errs.ErrAuthorization)
	ErrUserInactive         = errs.Mark(errs.New("user inactive"), errs.ErrAuthorization)
	ErrAuthenticationFailed = errs.Mark(errs.New("authentication failed"), errs.ErrValidation)
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrEmailTaken           = errs.Mark(errs.New("email already registered"), errs.ErrStateConflict)
	ErrRoleNotSelfAssigned  = errs.Mark(errs.New("role cannot be chosen at registration"), errs.ErrAuthorization)
)

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

type RegisterRequest struct {
	Email    string
	Password string
	Role     string
}

type AuthCommands interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
	hashCost   int
	logger     *slog.Logger
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service, clk clock.Clock, cfg config.Config, logger *slog.Logger) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		clock:      clk,
		hashCost:   cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	credentials, err := user.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	userReadModel, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userReadModel.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	accessToken, err := a.jwtService.GenerateAccessToken(userReadModel.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, userReadModel.ID, a.clock.Now())
	})
	if err != nil {
		// login already succeeded; only the audit timestamp is lost
		a.logger.WarnContext(ctx, "failed to update last login", "user_id", userReadModel.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:      userReadModel.ID,
		AccessToken: accessToken,
	}, nil
}

// Register creates an active renter or owner account. Admins are provisioned
// out of band.
func (a *authCommandsImpl) Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error) {
	credentials, err := user.NewCredentials(req.Email, req.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}
	role := user.RoleRenter
	if req.Role != "" {
		if role, err = user.NewRole(req.Role); err != nil {
			return uuid.Nil, errs.Mark(err, errs.ErrValidation)
		}
	}
	if role == user.RoleAdmin {
		return uuid.Nil, ErrRoleNotSelfAssigned
	}

	hash, err := password.HashPasswordWithCost(credentials.Password().Value(), a.hashCost)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	u := user.NewUser(credentials.Email(), hash, role, a.clock.Now())
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().Create(ctx, u)
	})
	if err != nil {
		if errs.Is(err, errs.ErrStateConflict) {
			return uuid.Nil, errs.Mark(errs.Wrap(err, credentials.Email().Value()), ErrEmailTaken)
		}
		return uuid.Nil, err
	}

	a.logger.InfoContext(ctx, "user registered", "user_id", u.ID(), "role", role.String())
	return u.ID(), nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthorizedUserView, error) {
	userReadModel, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Same error as a password mismatch so emails cannot be enumerated
		if errs.Is(err, errs.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !userReadModel.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	return userReadModel, nil
}
