package model

import "time"

// Credentials holds the AWS key pair, optional session token and region.
// The JSON layout is the on-disk format of the credentials file.
type Credentials struct {
	AccessKeyID     string     `json:"accessKeyId"`
	SecretAccessKey string     `json:"secretAccessKey"`
	SessionToken    string     `json:"sessionToken,omitempty"`
	Region          string     `json:"region"`
	Expiration      *time.Time `json:"expiration,omitempty"`
}

// Expired reports whether a recorded session expiration has passed
func (c Credentials) Expired(now time.Time) bool {
	return c.Expiration != nil && !now.Before(*c.Expiration)
}
