package repository_test

import (
	"context"
	"testing"

	. "todoapi/pkg/test"

	"todoapi/internal/adapter/database/repository"
	"todoapi/internal/core/port"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TagRepositoryTestSuite struct {
	suite.Suite
	TagRepo port.TagRepository
}

func (s *TagRepositoryTestSuite) SetupTest() {
	db := InitTestDB()

	s.TagRepo = repository.NewTagRepository(db)
}

func TestTagRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TagRepositoryTestSuite))
}

func (s *TagRepositoryTestSuite) TestRepository_Resolve_Empty() {
	tags, err := s.TagRepo.Resolve(context.Background(), nil)

	Expect(err).To(BeNil())
	Expect(tags).To(BeEmpty())
}

func (s *TagRepositoryTestSuite) TestRepository_Resolve_DedupesAndDropsEmpty() {
	tags, err := s.TagRepo.Resolve(context.Background(), []string{"work", "", "work", "home"})

	Expect(err).To(BeNil())
	Expect(tags).To(HaveLen(2))
}

func (s *TagRepositoryTestSuite) TestRepository_Resolve_ReusesExistingRows() {
	first, err := s.TagRepo.Resolve(context.Background(), []string{"urgent"})

	Expect(err).To(BeNil())
	Expect(first).To(HaveLen(1))

	second, err := s.TagRepo.Resolve(context.Background(), []string{"urgent", "later"})

	Expect(err).To(BeNil())
	Expect(second).To(HaveLen(2))

	byName := map[string]int{}

	for _, tag := range second {
		byName[tag.Name] = tag.ID
	}

	Expect(byName["urgent"]).To(Equal(first[0].ID))
}

func (s *TagRepositoryTestSuite) TestRepository_Resolve_CaseSensitiveNames() {
	tags, err := s.TagRepo.Resolve(context.Background(), []string{"Work", "work"})

	Expect(err).To(BeNil())
	Expect(tags).To(HaveLen(2))
}
