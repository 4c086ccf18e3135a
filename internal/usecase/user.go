package usecase

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/service"
)

// UserUsecase handles signup, sign-in and profile editing.
type UserUsecase struct {
	users   UserRepository
	invites *InviteUsecase
}

func NewUserUsecase(users UserRepository, invites *InviteUsecase) *UserUsecase {
	return &UserUsecase{
		users:   users,
		invites: invites,
	}
}

type SignUpInput struct {
	Token           string `json:"token" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignUp completes invite-gated registration: the token must be valid, the
// email unclaimed. Name and company are copied from the linked intention,
// and the token is consumed immediately after the user row exists.
func (uc *UserUsecase) SignUp(ctx context.Context, input SignUpInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.SignUp")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	invite, intention, err := uc.invites.Lookup(ctx, input.Token)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}
	if invite.Consumed() {
		return domain.User{}, domain.ConflictError{Reason: "invite already used"}
	}

	hashed, err := service.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "UserUsecase.SignUp: hashing failed")
	}

	user, err := uc.users.Create(ctx, domain.User{
		Name:     intention.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     domain.RoleUser,
		Company:  intention.Company,
	})
	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	// The account exists from here on. A consumption failure would leave a
	// reusable token behind an already-created user, so it fails the whole
	// signup loudly rather than being swallowed.
	_, err = uc.invites.Consume(ctx, input.Token)
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(
			ctx, "User created but invite consumption failed",
			slog.String("userId", user.ID),
			slog.String("intentionId", invite.IntentionID),
			slog.String("error", err.Error()),
			slog.String("module", "user"),
		)
		return domain.User{}, errors.Wrap(err, "UserUsecase.SignUp: invite consumption failed")
	}

	return user, nil
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Company  string `json:"company" validate:"required"`
}

// Create registers an account directly, without an invite. Role is always
// user; admins are provisioned out of band.
func (uc *UserUsecase) Create(ctx context.Context, input CreateUserInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.Create")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	hashed, err := service.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "UserUsecase.Create: hashing failed")
	}

	return uc.users.Create(ctx, domain.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     domain.RoleUser,
		Company:  input.Company,
	})
}

type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignIn verifies credentials. Unknown email and wrong password produce
// the same error so the response never confirms an address is registered.
func (uc *UserUsecase) SignIn(ctx context.Context, input SignInInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.SignIn")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	user, err := uc.users.GetByEmail(ctx, input.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.NewValidationError("email", "invalid email or password")
	}
	if err != nil {
		span.RecordError(err)
		return domain.User{}, errors.Wrap(err, "UserUsecase.SignIn failed")
	}

	if !service.VerifyPassword(input.Password, user.Password) {
		return domain.User{}, domain.NewValidationError("email", "invalid email or password")
	}

	return user, nil
}

func (uc *UserUsecase) Get(ctx context.Context, id string) (domain.User, error) {
	return uc.users.Get(ctx, id)
}

func (uc *UserUsecase) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return uc.users.GetByEmail(ctx, email)
}

type UpdateProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Company  *string `json:"company" validate:"omitempty,min=1"`
}

// UpdateProfile applies a partial self-edit. The role is not part of the
// surface at all.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.User, error) {
	ctx, span := tracer.Start(ctx, "User.Usecase.UpdateProfile")
	defer span.End()

	if err := validateInput(input); err != nil {
		return domain.User{}, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Company != nil {
		fields["company"] = *input.Company
	}
	if input.Password != nil {
		hashed, err := service.HashPassword(*input.Password)
		if err != nil {
			span.RecordError(err)
			return domain.User{}, errors.Wrap(err, "UserUsecase.UpdateProfile: hashing failed")
		}
		fields["password"] = hashed
	}

	return uc.users.Update(ctx, userID, fields)
}
