package models

import "time"

// OTPTTL is how long a one-time code stays valid after creation. The most
// recent code for an email wins; anything older than this is rejected even
// if it is still the most recent.
const OTPTTL = 10 * time.Minute

// OTP is an ephemeral one-time verification code sent by email. Multiple
// codes may exist per email; a code is deleted immediately after use.
type OTP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EmailID   string    `gorm:"index;not null" json:"emailId"`
	Code      string    `gorm:"index;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OTP model
func (OTP) TableName() string {
	return "otps"
}

// Expired reports whether the code is past its validity window
func (o *OTP) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OTPTTL
}
