package repository_test

import (
	"context"
	"testing"
	"time"

	. "todoapi/pkg/test"

	"todoapi/internal/adapter/database/repository"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	UserRepo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db := InitTestDB()

	s.UserRepo = repository.NewUserRepository(db)
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_Success() {
	now := time.Now().UTC()

	user, err := s.UserRepo.Create(context.Background(), domain.User{
		UUID:              uuid.New(),
		Email:             "new@example.com",
		EncryptedPassword: "not-a-real-hash",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	Expect(err).To(BeNil())
	Expect(user.ID).To(BeNumerically(">", 0))
	Expect(user.Email).To(Equal("new@example.com"))
	Expect(user.IsActive).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DuplicateEmail() {
	now := time.Now().UTC()

	first := domain.User{
		UUID:              uuid.New(),
		Email:             "taken@example.com",
		EncryptedPassword: "hash",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	_, err := s.UserRepo.Create(context.Background(), first)
	Expect(err).To(BeNil())

	second := first
	second.UUID = uuid.New()

	_, err = s.UserRepo.Create(context.Background(), second)

	// The unique index is the last line of defense under concurrency.
	Expect(err).NotTo(BeNil())
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_NotFound() {
	_, err := s.UserRepo.GetByEmail(context.Background(), "nobody@example.com")

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail_Success() {
	now := time.Now().UTC()

	created, err := s.UserRepo.Create(context.Background(), domain.User{
		UUID:              uuid.New(),
		Email:             "findme@example.com",
		EncryptedPassword: "hash",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})

	Expect(err).To(BeNil())

	found, err := s.UserRepo.GetByEmail(context.Background(), "findme@example.com")

	Expect(err).To(BeNil())
	Expect(found.ID).To(Equal(created.ID))
	Expect(found.UUID).To(Equal(created.UUID))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	_, err := s.UserRepo.GetByID(context.Background(), 9999)

	Expect(err).To(MatchError(domain.ErrUserNotFound))
}
