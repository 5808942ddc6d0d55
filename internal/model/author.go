package model

import (
	"fmt"
	"time"
)

type Author struct {
	ID          int        `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	DateOfDeath *time.Time `json:"date_of_death"`
}

// DisplayName is "last, first".
func (a *Author) DisplayName() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

type FindAuthor struct {
	ID       *int
	LastName *string

	Limit  *int
	Offset *int
}

type AuthorRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	DateOfDeath string `json:"date_of_death" validate:"omitempty,datetime=2006-01-02"`
}

type AuthorDetail struct {
	*Author
	Name  string  `json:"name"`
	Books []*Book `json:"books,omitempty"`
}
