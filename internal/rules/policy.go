package rules

import (
	"fmt"
	"unicode/utf8"
)

// MsgDuplicateTitle is reported when an owner already has a ticket with the
// candidate title. The duplicate lookup itself lives in the service layer; the
// rules package stays free of I/O.
const MsgDuplicateTitle = "a ticket with this title already exists"

// Policy holds the field length bounds. A max of 0 disables the upper bound.
type Policy struct {
	TitleMinLength       int
	TitleMaxLength       int
	DescriptionMinLength int
	DescriptionMaxLength int
}

func DefaultPolicy() Policy {
	return Policy{
		TitleMinLength:       3,
		TitleMaxLength:       30,
		DescriptionMinLength: 10,
		DescriptionMaxLength: 500,
	}
}

func (p Policy) CheckTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < p.TitleMinLength {
		return fmt.Errorf("title must be at least %d characters long", p.TitleMinLength)
	}
	if p.TitleMaxLength > 0 && n > p.TitleMaxLength {
		return fmt.Errorf("title must be at most %d characters long", p.TitleMaxLength)
	}
	return nil
}

func (p Policy) CheckDescription(description string) error {
	n := utf8.RuneCountInString(description)
	if n < p.DescriptionMinLength {
		return fmt.Errorf("description must be at least %d characters long", p.DescriptionMinLength)
	}
	if p.DescriptionMaxLength > 0 && n > p.DescriptionMaxLength {
		return fmt.Errorf("description must be at most %d characters long", p.DescriptionMaxLength)
	}
	return nil
}
