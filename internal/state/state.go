package state

import (
	"ecomm/datagen/internal/domain"

	"github.com/google/uuid"
)

// Counts is a snapshot of how many entities a session holds.
type Counts struct {
	Categories int `json:"categories" yaml:"categories"`
	Products   int `json:"products" yaml:"products"`
	Users      int `json:"users" yaml:"users"`
}

// Session owns the three collections a pipeline run builds up. Collections
// only ever grow: there is no update or delete. A Session is not safe for
// concurrent writers.
type Session struct {
	id string

	categories []domain.Category
	products   []domain.Product
	users      []domain.User

	categoryIDs map[string]struct{}
	productIDs  map[string]struct{}
}

func NewSession() *Session {
	return &Session{
		id:          uuid.NewString(),
		categoryIDs: make(map[string]struct{}),
		productIDs:  make(map[string]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) AddCategory(c domain.Category) {
	s.categories = append(s.categories, c)
	s.categoryIDs[c.ID] = struct{}{}
}

func (s *Session) AddProduct(p domain.Product) {
	s.products = append(s.products, p)
	s.productIDs[p.ID] = struct{}{}
}

func (s *Session) AddUser(u domain.User) {
	s.users = append(s.users, u)
}

func (s *Session) HasCategory(id string) bool {
	_, ok := s.categoryIDs[id]
	return ok
}

func (s *Session) HasProduct(id string) bool {
	_, ok := s.productIDs[id]
	return ok
}

// Categories returns a copy of the accumulated categories in insertion order.
func (s *Session) Categories() []domain.Category {
	return append([]domain.Category(nil), s.categories...)
}

func (s *Session) Products() []domain.Product {
	return append([]domain.Product(nil), s.products...)
}

func (s *Session) Users() []domain.User {
	return append([]domain.User(nil), s.users...)
}

func (s *Session) Counts() Counts {
	return Counts{
		Categories: len(s.categories),
		Products:   len(s.products),
		Users:      len(s.users),
	}
}

func (s *Session) CategoryRecords() []domain.Record {
	records := make([]domain.Record, 0, len(s.categories))
	for _, c := range s.categories {
		records = append(records, c.Record())
	}
	return records
}

func (s *Session) ProductRecords() []domain.Record {
	records := make([]domain.Record, 0, len(s.products))
	for _, p := range s.products {
		records = append(records, p.Record())
	}
	return records
}

func (s *Session) UserRecords() []domain.Record {
	records := make([]domain.Record, 0, len(s.users))
	for _, u := range s.users {
		records = append(records, u.Record())
	}
	return records
}
