package credentials

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rusenback/cwtail/internal/model"
)

// Handle is the single live credential set. API clients read it on every
// request through Retrieve, so Replace takes effect on the next call.
type Handle struct {
	mu    sync.RWMutex
	creds model.Credentials
}

func NewHandle(c model.Credentials) *Handle {
	return &Handle{creds: c}
}

// Get returns a copy of the current credentials.
func (h *Handle) Get() model.Credentials {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.creds
}

// Replace swaps the credentials wholesale.
func (h *Handle) Replace(c model.Credentials) {
	h.mu.Lock()
	h.creds = c
	h.mu.Unlock()
}

// Region returns the region of the current credentials.
func (h *Handle) Region() string {
	return h.Get().Region
}

// Retrieve implements aws.CredentialsProvider.
func (h *Handle) Retrieve(ctx context.Context) (aws.Credentials, error) {
	c := h.Get()
	if err := Validate(c); err != nil {
		return aws.Credentials{}, err
	}

	out := aws.Credentials{
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		SessionToken:    c.SessionToken,
		Source:          "cwtail",
	}
	if c.Expiration != nil {
		out.CanExpire = true
		out.Expires = *c.Expiration
	}
	return out, nil
}
