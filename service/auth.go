package service

import (
	"context"

	"github.com/Luismorlan/tunemux/auth"
	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
	"github.com/pkg/errors"
)

type RegisterInput struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Fullname *string `json:"fullname"`
	Bio      *string `json:"bio"`
}

type LoginResult struct {
	User  *model.User
	Token string
}

// TokenIssuer signs a bearer token for a user.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthService struct {
	users    repository.UserRepository
	issuer   TokenIssuer
	verifier auth.TokenVerifier
	now      Clock
}

func NewAuthService(users repository.UserRepository, issuer TokenIssuer, verifier auth.TokenVerifier) *AuthService {
	return &AuthService{users: users, issuer: issuer, verifier: verifier, now: utcNow}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	switch {
	case in.Username == "":
		return nil, FieldRequired("username")
	case in.Email == "":
		return nil, FieldRequired("email")
	case in.Password == "":
		return nil, FieldRequired("password")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
		Fullname: in.Fullname,
		Bio:      in.Bio,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, DataAlreadyExists(MsgUserExists)
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials, records the login time and issues a token.
func (s *AuthService) Login(ctx context.Context, email string, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, BadRequest(MsgMissingCredential)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, BadRequest(MsgWrongCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, BadRequest(MsgWrongCredentials)
	}

	now := s.now()
	model.UserPatch{LastLogin: &now}.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(user.Id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue token")
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, Unauthorized(MsgTokenMissing)
	}
	userID, err := s.verifier.Verify(token)
	if err != nil {
		return nil, Unauthorized(MsgTokenInvalid)
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, Unauthorized(MsgTokenInvalid)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
