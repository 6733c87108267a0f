package models

import "time"

// Member is an account of the association. Role lives under auth to mirror
// the documents produced by the historical signup flow.
type Member struct {
	MemberID  string     `json:"memberId" bson:"memberId"`
	Email     string     `json:"email" bson:"email"`
	Password  string     `json:"-" bson:"password"` // bcrypt hash
	Name      string     `json:"name,omitempty" bson:"name,omitempty"`
	Phone     string     `json:"phone,omitempty" bson:"phone,omitempty"`
	Auth      MemberAuth `json:"auth" bson:"auth"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	LastLogin time.Time  `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

type MemberAuth struct {
	UID  string `json:"uid" bson:"uid"`
	Role string `json:"role" bson:"role"` // admin, member
}

// Invite is a single-use signup gate. Email, when set, binds the invite to
// that address.
type Invite struct {
	InviteID  string     `json:"inviteId" bson:"inviteId"`
	Token     string     `json:"token" bson:"token"`
	Email     string     `json:"email,omitempty" bson:"email,omitempty"`
	Role      string     `json:"role" bson:"role"`
	Used      bool       `json:"used" bson:"used"`
	UsedAt    *time.Time `json:"usedAt,omitempty" bson:"usedAt,omitempty"`
	UsedBy    string     `json:"usedBy,omitempty" bson:"usedBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
}
