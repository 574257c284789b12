package partner

import (
	"regexp"
	"strings"

	"github.com/tijara/backend/internal/domain/shared"
	"github.com/ttacon/libphonenumber"
)

// DefaultPhoneRegion is used for numbers written without an international prefix
const DefaultPhoneRegion = "MA"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Contact groups the contact fields shared by clients and suppliers
type Contact struct {
	Address string
	Phone   string // E.164 once normalized
	Email   string
}

// NormalizeContact trims fields, validates the email and rewrites the phone in E.164
func NormalizeContact(c Contact) (Contact, error) {
	out := Contact{
		Address: strings.TrimSpace(c.Address),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
	}
	if len(out.Address) > 500 {
		return Contact{}, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if out.Email != "" {
		if len(out.Email) > 200 {
			return Contact{}, shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailRegex.MatchString(out.Email) {
			return Contact{}, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	phone, err := NormalizePhone(c.Phone)
	if err != nil {
		return Contact{}, err
	}
	out.Phone = phone
	return out, nil
}

// NormalizePhone parses raw in the default region and formats it as E.164.
// An empty input stays empty.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", shared.NewDomainError("INVALID_PHONE", "Invalid phone number").WithCause(err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validateICE(ice string) error {
	if len(ice) > 30 {
		return shared.NewDomainError("INVALID_ICE", "ICE cannot exceed 30 characters")
	}
	return nil
}
