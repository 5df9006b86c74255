package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserService is the demo business layer: it persists a user, sends the
// welcome mail, and announces the registration on the bus. All three
// collaborators arrive through the container, so tests swap any of them
// with Substitute and this code never changes.
type UserService struct {
	repo   UserRepository
	mailer Mailer
	events *Bus
	log    *logrus.Logger
}

// NewUserService wires the service from its resolved dependencies.
func NewUserService(repo UserRepository, mailer Mailer, events *Bus, log *logrus.Logger) *UserService {
	return &UserService{repo: repo, mailer: mailer, events: events, log: log}
}

// Register creates a user, persists it, and sends the welcome mail.
func (s *UserService) Register(name, email string) (User, error) {
	u := User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}

	if err := s.repo.Save(u); err != nil {
		return User{}, fmt.Errorf("registering %q: %w", name, err)
	}
	if err := s.mailer.Send(u.Email, "Welcome!", "Welcome "+u.Name+"!"); err != nil {
		return User{}, fmt.Errorf("welcoming %q: %w", name, err)
	}

	s.events.Publish(TopicUserRegistered, u)
	s.log.WithFields(logrus.Fields{"id": u.ID, "name": u.Name}).Info("users: registered")
	return u, nil
}

// Get returns the user with the given id.
func (s *UserService) Get(id string) (User, error) {
	return s.repo.Find(id)
}
