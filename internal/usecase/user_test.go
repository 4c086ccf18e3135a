package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/service"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
	next  int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]domain.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.User{}, domain.ConflictError{Reason: "email already registered"}
		}
	}
	m.next++
	user.ID = "user-" + string(rune('0'+m.next))
	user.CreatedAt = time.Now()
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockUserRepo) Get(ctx context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *mockUserRepo) Update(ctx context.Context, id string, fields map[string]any) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	if name, ok := fields["name"].(string); ok {
		user.Name = name
	}
	if email, ok := fields["email"].(string); ok {
		user.Email = email
	}
	if password, ok := fields["password"].(string); ok {
		user.Password = password
	}
	if company, ok := fields["company"].(string); ok {
		user.Company = company
	}
	m.users[id] = user
	return user, nil
}

func signupFixture(t *testing.T) (*UserUsecase, *InviteUsecase, *mockUserRepo, domain.Invite) {
	t.Helper()

	intentionRepo := newMockIntentionRepo()
	inviteRepo := newMockInviteRepo()
	userRepo := newMockUserRepo()
	invites := NewInviteUsecase(inviteRepo, intentionRepo, "http://localhost")
	users := NewUserUsecase(userRepo, invites)

	intention, err := intentionRepo.Create(context.Background(), domain.Intention{
		Name:       "Ana",
		Email:      "ana@x.com",
		Company:    "X",
		Motivation: "network",
	})
	if err != nil {
		t.Fatalf("create intention failed: %v", err)
	}

	invite, err := invites.Issue(context.Background(), intention.ID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	return users, invites, userRepo, invite
}

func TestSignUpCopiesIntentionAndConsumesToken(t *testing.T) {
	users, invites, userRepo, invite := signupFixture(t)

	user, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if user.Name != "Ana" || user.Company != "X" {
		t.Fatalf("expected name/company copied from intention got %+v", user)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user got %s", user.Role)
	}
	if user.Password == "secret-pass" {
		t.Fatal("password must be stored hashed")
	}
	if !service.VerifyPassword("secret-pass", user.Password) {
		t.Fatal("stored hash must verify against the plain password")
	}

	status, err := invites.Validate(context.Background(), invite.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if status.Valid || status.Reason != "already used" {
		t.Fatalf("token must be consumed after signup got %+v", status)
	}

	// Second signup with the same token must fail before creating a user.
	_, err = users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "other@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("expected exactly one user got %d", len(userRepo.users))
	}
}

func TestSignUpPasswordMismatch(t *testing.T) {
	users, _, _, invite := signupFixture(t)

	_, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "different",
	})

	var validation domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error got %v", err)
	}
	if len(validation.Fields["confirmPassword"]) == 0 {
		t.Fatalf("expected confirmPassword field error got %+v", validation.Fields)
	}
}

func TestSignUpUnknownToken(t *testing.T) {
	users, _, _, _ := signupFixture(t)

	_, err := users.SignUp(context.Background(), SignUpInput{
		Token:           "nonexistent-token",
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	users, invites, _, invite := signupFixture(t)

	_, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	second, err := invites.Issue(context.Background(), invite.IntentionID)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = users.SignUp(context.Background(), SignUpInput{
		Token:           second.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestSignInDoesNotRevealWhichFieldFailed(t *testing.T) {
	users, _, _, invite := signupFixture(t)

	_, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, unknownErr := users.SignIn(context.Background(), SignInInput{
		Email:    "nobody@x.com",
		Password: "secret-pass",
	})
	_, wrongErr := users.SignIn(context.Background(), SignInInput{
		Email:    "ana@x.com",
		Password: "wrong",
	})

	var unknown, wrong domain.ValidationError
	if !errors.As(unknownErr, &unknown) || !errors.As(wrongErr, &wrong) {
		t.Fatalf("expected validation errors got %v / %v", unknownErr, wrongErr)
	}
	if unknown.Fields["email"][0] != wrong.Fields["email"][0] {
		t.Fatal("unknown email and wrong password must produce the same message")
	}
}

func TestSignInSuccess(t *testing.T) {
	users, _, _, invite := signupFixture(t)

	created, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	user, err := users.SignIn(context.Background(), SignInInput{
		Email:    "ana@x.com",
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user %s got %s", created.ID, user.ID)
	}
}

func TestUpdateProfileIgnoresRole(t *testing.T) {
	users, _, userRepo, invite := signupFixture(t)

	created, err := users.SignUp(context.Background(), SignUpInput{
		Token:           invite.Token,
		Email:           "ana@x.com",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	company := "Y"
	updated, err := users.UpdateProfile(context.Background(), created.ID, UpdateProfileInput{
		Company: &company,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Company != "Y" {
		t.Fatalf("expected company Y got %s", updated.Company)
	}
	if updated.Role != domain.RoleUser {
		t.Fatalf("role must be untouched got %s", updated.Role)
	}

	stored := userRepo.users[created.ID]
	if stored.Name != "Ana" {
		t.Fatalf("unrelated fields must be untouched got %+v", stored)
	}
}
