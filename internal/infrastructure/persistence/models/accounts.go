package models

import (
	"time"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserModel is the GORM model for users
type UserModel struct {
	AggregateModel
	Username       string     `gorm:"size:150;not null;uniqueIndex"`
	Email          string     `gorm:"size:254;not null;uniqueIndex"`
	FirstName      string     `gorm:"size:150"`
	LastName       string     `gorm:"size:150"`
	PasswordHash   string     `gorm:"size:255;not null"`
	IsStaff        bool       `gorm:"not null;default:false"`
	IsSuperuser    bool       `gorm:"not null;default:false"`
	Status         string     `gorm:"size:20;not null;default:'pending';index"`
	LastLoginAt    *time.Time `gorm:""`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time `gorm:""`
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts UserModel to domain User
func (m *UserModel) ToDomain() *accounts.User {
	return &accounts.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Username:          m.Username,
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		PasswordHash:      m.PasswordHash,
		IsStaff:           m.IsStaff,
		IsSuperuser:       m.IsSuperuser,
		Status:            accounts.UserStatus(m.Status),
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// UserModelFromDomain creates a UserModel from domain User
func UserModelFromDomain(user *accounts.User) *UserModel {
	model := &UserModel{
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		PasswordHash:   user.PasswordHash,
		IsStaff:        user.IsStaff,
		IsSuperuser:    user.IsSuperuser,
		Status:         string(user.Status),
		LastLoginAt:    user.LastLoginAt,
		FailedAttempts: user.FailedAttempts,
		LockedUntil:    user.LockedUntil,
	}
	model.FromDomainAggregateRoot(user.BaseAggregateRoot)
	return model
}

// LabGroupModel is the GORM model for lab groups
type LabGroupModel struct {
	AggregateModel
	Name               string     `gorm:"size:255;not null;index"`
	Description        string     `gorm:"type:text"`
	ParentGroupID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null;index"`
	AllowMemberInvites bool       `gorm:"not null;default:false"`
	AllowProcessJobs   bool       `gorm:"not null;default:false"`
}

// TableName specifies the table name
func (LabGroupModel) TableName() string {
	return "lab_groups"
}

// ToDomain converts LabGroupModel to domain LabGroup
func (m *LabGroupModel) ToDomain() *accounts.LabGroup {
	return &accounts.LabGroup{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Name:               m.Name,
		Description:        m.Description,
		ParentGroupID:      m.ParentGroupID,
		CreatedBy:          m.CreatedBy,
		AllowMemberInvites: m.AllowMemberInvites,
		AllowProcessJobs:   m.AllowProcessJobs,
	}
}

// LabGroupModelFromDomain creates a LabGroupModel from domain LabGroup
func LabGroupModelFromDomain(group *accounts.LabGroup) *LabGroupModel {
	model := &LabGroupModel{
		Name:               group.Name,
		Description:        group.Description,
		ParentGroupID:      group.ParentGroupID,
		CreatedBy:          group.CreatedBy,
		AllowMemberInvites: group.AllowMemberInvites,
		AllowProcessJobs:   group.AllowProcessJobs,
	}
	model.FromDomainAggregateRoot(group.BaseAggregateRoot)
	return model
}

// LabGroupMemberModel is the GORM model for direct group memberships
type LabGroupMemberModel struct {
	LabGroupID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName specifies the table name
func (LabGroupMemberModel) TableName() string {
	return "lab_group_members"
}

// LabGroupPermissionModel is the GORM model for per-group permission rows
type LabGroupPermissionModel struct {
	BaseModel
	LabGroupID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_user_perm"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_user_perm;index"`
	CanView        bool      `gorm:"not null;default:true"`
	CanInvite      bool      `gorm:"not null;default:false"`
	CanManage      bool      `gorm:"not null;default:false"`
	CanProcessJobs bool      `gorm:"not null;default:false"`
}

// TableName specifies the table name
func (LabGroupPermissionModel) TableName() string {
	return "lab_group_permissions"
}

// ToDomain converts LabGroupPermissionModel to domain LabGroupPermission
func (m *LabGroupPermissionModel) ToDomain() *accounts.LabGroupPermission {
	return &accounts.LabGroupPermission{
		BaseEntity:     m.BaseModel.ToDomain(),
		LabGroupID:     m.LabGroupID,
		UserID:         m.UserID,
		CanView:        m.CanView,
		CanInvite:      m.CanInvite,
		CanManage:      m.CanManage,
		CanProcessJobs: m.CanProcessJobs,
	}
}

// LabGroupPermissionModelFromDomain creates a LabGroupPermissionModel from domain LabGroupPermission
func LabGroupPermissionModelFromDomain(perm *accounts.LabGroupPermission) *LabGroupPermissionModel {
	model := &LabGroupPermissionModel{
		LabGroupID:     perm.LabGroupID,
		UserID:         perm.UserID,
		CanView:        perm.CanView,
		CanInvite:      perm.CanInvite,
		CanManage:      perm.CanManage,
		CanProcessJobs: perm.CanProcessJobs,
	}
	model.FromDomainBaseEntity(perm.BaseEntity)
	return model
}

// InvitationModel is the GORM model for lab group invitations
type InvitationModel struct {
	AggregateModel
	LabGroupID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	InviterID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvitedEmail string     `gorm:"size:254;not null;index"`
	Token        string     `gorm:"size:128;not null;uniqueIndex"`
	Status       string     `gorm:"size:20;not null;default:'pending';index"`
	Message      string     `gorm:"type:text"`
	ExpiresAt    time.Time  `gorm:"not null"`
	RespondedAt  *time.Time `gorm:""`
}

// TableName specifies the table name
func (InvitationModel) TableName() string {
	return "lab_group_invitations"
}

// ToDomain converts InvitationModel to domain LabGroupInvitation
func (m *InvitationModel) ToDomain() *accounts.LabGroupInvitation {
	return &accounts.LabGroupInvitation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		LabGroupID:        m.LabGroupID,
		InviterID:         m.InviterID,
		InvitedEmail:      m.InvitedEmail,
		Token:             m.Token,
		Status:            accounts.InvitationStatus(m.Status),
		Message:           m.Message,
		ExpiresAt:         m.ExpiresAt,
		RespondedAt:       m.RespondedAt,
	}
}

// InvitationModelFromDomain creates an InvitationModel from domain LabGroupInvitation
func InvitationModelFromDomain(inv *accounts.LabGroupInvitation) *InvitationModel {
	model := &InvitationModel{
		LabGroupID:   inv.LabGroupID,
		InviterID:    inv.InviterID,
		InvitedEmail: inv.InvitedEmail,
		Token:        inv.Token,
		Status:       string(inv.Status),
		Message:      inv.Message,
		ExpiresAt:    inv.ExpiresAt,
		RespondedAt:  inv.RespondedAt,
	}
	model.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	return model
}

// SiteConfigModel is the GORM model for the site configuration singleton
type SiteConfigModel struct {
	AggregateModel
	SiteName                     string `gorm:"size:255;not null"`
	PrimaryColor                 string `gorm:"size:7;not null"`
	AllowUserRegistration        bool   `gorm:"not null;default:false"`
	EnableOrcidLogin             bool   `gorm:"not null;default:false"`
	ShowPoweredBy                bool   `gorm:"not null;default:true"`
	BookingDeletionWindowMinutes int    `gorm:"not null;default:30"`
	UpdatedBy                    string `gorm:"size:150"`
}

// TableName specifies the table name
func (SiteConfigModel) TableName() string {
	return "site_configs"
}

// ToDomain converts SiteConfigModel to domain SiteConfig
func (m *SiteConfigModel) ToDomain() *accounts.SiteConfig {
	return &accounts.SiteConfig{
		BaseAggregateRoot:            m.ToDomainAggregateRoot(),
		SiteName:                     m.SiteName,
		PrimaryColor:                 m.PrimaryColor,
		AllowUserRegistration:        m.AllowUserRegistration,
		EnableOrcidLogin:             m.EnableOrcidLogin,
		ShowPoweredBy:                m.ShowPoweredBy,
		BookingDeletionWindowMinutes: m.BookingDeletionWindowMinutes,
		UpdatedBy:                    m.UpdatedBy,
	}
}

// SiteConfigModelFromDomain creates a SiteConfigModel from domain SiteConfig
func SiteConfigModelFromDomain(cfg *accounts.SiteConfig) *SiteConfigModel {
	model := &SiteConfigModel{
		SiteName:                     cfg.SiteName,
		PrimaryColor:                 cfg.PrimaryColor,
		AllowUserRegistration:        cfg.AllowUserRegistration,
		EnableOrcidLogin:             cfg.EnableOrcidLogin,
		ShowPoweredBy:                cfg.ShowPoweredBy,
		BookingDeletionWindowMinutes: cfg.BookingDeletionWindowMinutes,
		UpdatedBy:                    cfg.UpdatedBy,
	}
	model.FromDomainAggregateRoot(cfg.BaseAggregateRoot)
	return model
}

// MergeRequestModel is the GORM model for account merge requests
type MergeRequestModel struct {
	AggregateModel
	PrimaryUserID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	DuplicateUserID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	Reason          string     `gorm:"type:text"`
	Status          string     `gorm:"size:20;not null;default:'pending';index"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time `gorm:""`
	CompletedAt     *time.Time `gorm:""`
}

// TableName specifies the table name
func (MergeRequestModel) TableName() string {
	return "account_merge_requests"
}

// ToDomain converts MergeRequestModel to domain AccountMergeRequest
func (m *MergeRequestModel) ToDomain() *accounts.AccountMergeRequest {
	return &accounts.AccountMergeRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PrimaryUserID:     m.PrimaryUserID,
		DuplicateUserID:   m.DuplicateUserID,
		RequestedBy:       m.RequestedBy,
		Reason:            m.Reason,
		Status:            accounts.MergeRequestStatus(m.Status),
		ReviewedBy:        m.ReviewedBy,
		ReviewedAt:        m.ReviewedAt,
		CompletedAt:       m.CompletedAt,
	}
}

// MergeRequestModelFromDomain creates a MergeRequestModel from domain AccountMergeRequest
func MergeRequestModelFromDomain(req *accounts.AccountMergeRequest) *MergeRequestModel {
	model := &MergeRequestModel{
		PrimaryUserID:   req.PrimaryUserID,
		DuplicateUserID: req.DuplicateUserID,
		RequestedBy:     req.RequestedBy,
		Reason:          req.Reason,
		Status:          string(req.Status),
		ReviewedBy:      req.ReviewedBy,
		ReviewedAt:      req.ReviewedAt,
		CompletedAt:     req.CompletedAt,
	}
	model.FromDomainAggregateRoot(req.BaseAggregateRoot)
	return model
}

// ResourcePermissionModel is the GORM model for per-resource permission grants
type ResourcePermissionModel struct {
	BaseModel
	ResourceType string    `gorm:"size:50;not null;uniqueIndex:idx_resource_user_grant"`
	ResourceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resource_user_grant"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resource_user_grant;index"`
	Role         string    `gorm:"size:20;not null"`
	GrantedBy    uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName specifies the table name
func (ResourcePermissionModel) TableName() string {
	return "resource_permissions"
}

// ToDomain converts ResourcePermissionModel to domain ResourcePermission
func (m *ResourcePermissionModel) ToDomain() *accounts.ResourcePermission {
	return &accounts.ResourcePermission{
		BaseEntity:   m.BaseModel.ToDomain(),
		ResourceType: shared.ResourceType(m.ResourceType),
		ResourceID:   m.ResourceID,
		UserID:       m.UserID,
		Role:         shared.ResourceRole(m.Role),
		GrantedBy:    m.GrantedBy,
	}
}

// ResourcePermissionModelFromDomain creates a ResourcePermissionModel from domain ResourcePermission
func ResourcePermissionModelFromDomain(perm *accounts.ResourcePermission) *ResourcePermissionModel {
	model := &ResourcePermissionModel{
		ResourceType: string(perm.ResourceType),
		ResourceID:   perm.ResourceID,
		UserID:       perm.UserID,
		Role:         string(perm.Role),
		GrantedBy:    perm.GrantedBy,
	}
	model.FromDomainBaseEntity(perm.BaseEntity)
	return model
}

// OrcidProfileModel is the GORM model for ORCID profile links
type OrcidProfileModel struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OrcidID    string     `gorm:"size:19;not null;uniqueIndex"`
	Verified   bool       `gorm:"not null;default:false"`
	LinkedAt   time.Time  `gorm:"not null"`
	VerifiedAt *time.Time `gorm:""`
}

// TableName specifies the table name
func (OrcidProfileModel) TableName() string {
	return "user_orcid_profiles"
}

// ToDomain converts OrcidProfileModel to domain UserOrcidProfile
func (m *OrcidProfileModel) ToDomain() *accounts.UserOrcidProfile {
	return &accounts.UserOrcidProfile{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		OrcidID:    m.OrcidID,
		Verified:   m.Verified,
		LinkedAt:   m.LinkedAt,
		VerifiedAt: m.VerifiedAt,
	}
}

// OrcidProfileModelFromDomain creates an OrcidProfileModel from domain UserOrcidProfile
func OrcidProfileModelFromDomain(profile *accounts.UserOrcidProfile) *OrcidProfileModel {
	model := &OrcidProfileModel{
		UserID:     profile.UserID,
		OrcidID:    profile.OrcidID,
		Verified:   profile.Verified,
		LinkedAt:   profile.LinkedAt,
		VerifiedAt: profile.VerifiedAt,
	}
	model.FromDomainBaseEntity(profile.BaseEntity)
	return model
}
