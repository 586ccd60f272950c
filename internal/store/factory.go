package store

import (
	"altis.app/tracker/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Organizations() OrganizationStore {
	return newOrganizationStore(s.queries)
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Issues() IssueStore {
	return newIssueStore(s.queries)
}

func (s *Stores) Comments() CommentStore {
	return newCommentStore(s.queries)
}

func (s *Stores) Activities() ActivityStore {
	return newActivityStore(s.queries)
}
