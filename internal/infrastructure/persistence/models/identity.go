package models

import (
	"github.com/apex/backoffice/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	AggregateModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash string        `gorm:"type:varchar(100);not null"`
	Name         string        `gorm:"type:varchar(200)"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'USER'"`
	Active       bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User aggregate.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Role:              m.Role,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain User aggregate.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Username = u.Username
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Role = u.Role
	m.Active = u.Active
}

// UserModelFromDomain creates a new persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
