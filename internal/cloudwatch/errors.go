package cloudwatch

import (
	"errors"

	"github.com/aws/smithy-go"
	"github.com/rusenback/cwtail/internal/clierr"
)

// Error codes meaning the credentials must be collected again
var expiredCodes = map[string]bool{
	"ExpiredTokenException":       true,
	"ExpiredToken":                true,
	"UnrecognizedClientException": true,
	"InvalidClientTokenId":        true,
	"InvalidSignatureException":   true,
	"SignatureDoesNotMatch":       true,
	"RequestExpired":              true,
}

// Classify maps an AWS SDK error to a clierr kind.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	// Already classified further down, e.g. by the credential source
	if clierr.IsCategorized(err) {
		return err
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.ErrorCode(); {
		case expiredCodes[code]:
			return clierr.ExpiredToken(op, err)
		case code == "ResourceNotFoundException":
			return clierr.NotFound("%s: %s", op, apiErr.ErrorMessage())
		}
	}
	return clierr.Unexpected(op, err)
}
