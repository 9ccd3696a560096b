package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	User       *UserRepository
	Challenge  *ChallengeRepository
	Membership *MembershipRepository
	Entry      *EntryRepository
	Comment    *CommentRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:       NewUserRepository(dbPool),
		Challenge:  NewChallengeRepository(dbPool),
		Membership: NewMembershipRepository(dbPool),
		Entry:      NewEntryRepository(dbPool),
		Comment:    NewCommentRepository(dbPool),
	}
}
