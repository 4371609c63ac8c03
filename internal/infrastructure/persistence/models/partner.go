package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/partner"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AggregateModel
	FirstName      string               `gorm:"type:varchar(100);not null"`
	LastName       string               `gorm:"type:varchar(100);not null"`
	DocumentNumber string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	Phone          string               `gorm:"type:varchar(50);index"`
	Address        string               `gorm:"type:text"`
	Notes          string               `gorm:"type:text"`
	Status         partner.ClientStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	DeletedAt      gorm.DeletedAt       `gorm:"index"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.baseAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		DocumentNumber:    m.DocumentNumber,
		Phone:             m.Phone,
		Address:           m.Address,
		Notes:             m.Notes,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.DocumentNumber = c.DocumentNumber
	m.Phone = c.Phone
	m.Address = c.Address
	m.Notes = c.Notes
	m.Status = c.Status
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// PartnerModel is the persistence model for the capital Partner entity.
type PartnerModel struct {
	AggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	Capital           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Withdrawals       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GeneratedInterest decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes             string          `gorm:"type:text"`
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner entity.
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		BaseAggregateRoot: m.baseAggregateRoot(),
		Name:              m.Name,
		Capital:           m.Capital,
		Withdrawals:       m.Withdrawals,
		GeneratedInterest: m.GeneratedInterest,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Partner entity.
func (m *PartnerModel) FromDomain(p *partner.Partner) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Capital = p.Capital
	m.Withdrawals = p.Withdrawals
	m.GeneratedInterest = p.GeneratedInterest
	m.Notes = p.Notes
}

// PartnerModelFromDomain creates a new persistence model from a domain Partner.
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{}
	m.FromDomain(p)
	return m
}
