package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorhub/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// CenterAggregateModel provides common persistence fields for center-scoped
// aggregate roots. It extends AggregateModel with center ID and creator info.
type CenterAggregateModel struct {
	AggregateModel
	CenterID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainCenterAggregateRoot populates CenterAggregateModel from domain CenterAggregateRoot
func (m *CenterAggregateModel) FromDomainCenterAggregateRoot(c shared.CenterAggregateRoot) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CenterID = c.CenterID
	m.CreatedBy = c.CreatedBy
}

// PopulateCenterAggregateRoot populates a domain CenterAggregateRoot from persistence model
func (m *CenterAggregateModel) PopulateCenterAggregateRoot(c *shared.CenterAggregateRoot) {
	c.BaseAggregateRoot.BaseEntity.ID = m.ID
	c.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	c.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	c.BaseAggregateRoot.Version = m.Version
	c.CenterID = m.CenterID
	c.CreatedBy = m.CreatedBy
}

// centerRoot rebuilds a domain CenterAggregateRoot from the model fields
func (m *CenterAggregateModel) centerRoot() shared.CenterAggregateRoot {
	var root shared.CenterAggregateRoot
	m.PopulateCenterAggregateRoot(&root)
	return root
}
