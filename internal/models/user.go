package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RoleStudent Role = "student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleStudent, RoleClient, RoleAdmin}

// ParseRole accepts "student", "STUDENT" and "ROLE_STUDENT" spellings.
func ParseRole(s string) (Role, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "role_")
	switch Role(v) {
	case RoleAdmin, RoleClient, RoleStudent:
		return Role(v), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleClient:
		return "Client"
	case RoleStudent:
		return "Student"
	}
	return "Unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(strings.ToUpper(string(r))), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type User struct {
	ID        int64  `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Role      Role   `json:"role" yaml:"role"`

	Phone      string          `json:"phone,omitempty" yaml:"phone"`
	Bio        string          `json:"bio,omitempty" yaml:"bio"`
	Skills     string          `json:"skills,omitempty" yaml:"skills"`
	HourlyRate decimal.Decimal `json:"hourlyRate" yaml:"hourlyRate"`
	Rating     float64         `json:"rating,omitempty" yaml:"rating"`

	CreatedAt Date `json:"createdAt" yaml:"createdAt"`
}

func (u *User) IsAdmin() bool   { return u != nil && u.Role == RoleAdmin }
func (u *User) IsClient() bool  { return u != nil && u.Role == RoleClient }
func (u *User) IsStudent() bool { return u != nil && u.Role == RoleStudent }

func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) Initials() string {
	if u == nil {
		return ""
	}
	return initial(u.FirstName) + initial(u.LastName)
}

func initial(s string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}

// DashboardStats backs the three dashboard cards. Students see active
// proposals, earnings and rating; clients see active jobs, spending and the
// number of jobs posted.
type DashboardStats struct {
	Active     int             `json:"active"`
	Money      decimal.Decimal `json:"money"`
	Rating     float64         `json:"rating"`
	JobsPosted int             `json:"jobsPosted"`
}
