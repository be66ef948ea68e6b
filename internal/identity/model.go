package identity

import "time"

// Roles stored on the user row. The role decides which login path and
// which application views are reachable.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents one registered account. PINHash is the only field the
// auth core mutates after creation and it never leaves the server.
type User struct {
	ID            string
	Mobile        string
	FullName      string
	Email         string
	Age           int
	City          string
	Pincode       string
	PINHash       []byte
	Role          string
	IsVerified    bool
	WalletBalance int64
	TotalEarnings int64
	IsPaidMember  bool
	ReferralCode  string
	ReferredBy    string
	CreatedAt     time.Time
}

// SafeUser is the client-facing projection of a user row with the
// credential hash stripped. Every success response uses this shape.
type SafeUser struct {
	ID            string `json:"id"`
	Mobile        string `json:"mobile"`
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	Age           int    `json:"age,omitempty"`
	City          string `json:"city,omitempty"`
	Pincode       string `json:"pincode,omitempty"`
	Role          string `json:"role"`
	IsVerified    bool   `json:"is_verified"`
	WalletBalance int64  `json:"wallet_balance"`
	TotalEarnings int64  `json:"total_earnings"`
	IsPaidMember  bool   `json:"is_paid_member"`
	ReferralCode  string `json:"referral_code"`
	ReferredBy    string `json:"referred_by,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Safe strips the credential hash and formats timestamps for transport.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:            u.ID,
		Mobile:        u.Mobile,
		FullName:      u.FullName,
		Email:         u.Email,
		Age:           u.Age,
		City:          u.City,
		Pincode:       u.Pincode,
		Role:          u.Role,
		IsVerified:    u.IsVerified,
		WalletBalance: u.WalletBalance,
		TotalEarnings: u.TotalEarnings,
		IsPaidMember:  u.IsPaidMember,
		ReferralCode:  u.ReferralCode,
		ReferredBy:    u.ReferredBy,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
