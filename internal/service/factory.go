package service

import (
	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/queue"
	"altis.app/tracker/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	hasher    auth.PasswordHasher
	tokens    *auth.TokenIssuer
	directory UserDirectory
	publisher ActivityPublisher
}

// NewServices wires the services. A nil publisher drops activity events.
func NewServices(stores *store.Stores, txRunner TxRunner, tokens *auth.TokenIssuer, publisher ActivityPublisher) *Services {
	if publisher == nil {
		publisher = NewActivityPublisher(queue.NewNoopProducer())
	}
	return &Services{
		stores:    stores,
		txRunner:  txRunner,
		hasher:    auth.NewBcryptHasher(auth.DefaultCost),
		tokens:    tokens,
		directory: NewUserDirectory(stores.Users()),
		publisher: publisher,
	}
}

func (s *Services) Tokens() *auth.TokenIssuer {
	return s.tokens
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Organizations(), s.hasher, s.tokens)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users())
}

func (s *Services) Organizations() OrganizationService {
	return NewOrganizationService(s.stores.Organizations())
}

func (s *Services) Issues() IssueService {
	return NewIssueService(
		s.stores.Issues(),
		s.stores.Comments(),
		s.stores.Activities(),
		s.txRunner,
		s.directory,
		s.publisher,
	)
}

func (s *Services) Comments() CommentService {
	return NewCommentService(
		s.stores.Issues(),
		s.stores.Comments(),
		s.txRunner,
		s.directory,
		s.publisher,
	)
}
