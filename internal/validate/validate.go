// Package validate holds the input validation rules for user-supplied
// fields. Every function returns nil for valid input and a descriptive
// error otherwise.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	usernameRe       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'.]{7,9}$`)
	zipCodeRe        = regexp.MustCompile(`^[0-9]{4}[A-Z]{2}$`)
	mobilePhoneRe    = regexp.MustCompile(`^[0-9]{8}$`)
	drivingLicenseRe = regexp.MustCompile(`^([A-Z]{2}[0-9]{7}|[A-Z][0-9]{8})$`)
	emailRe          = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	serialNumberRe   = regexp.MustCompile(`^[A-Za-z0-9]{10,17}$`)
	nameRe           = regexp.MustCompile(`^[A-Za-z][A-Za-z '\-]{0,29}$`)
	coordRe          = regexp.MustCompile(`^-?[0-9]{1,3}\.[0-9]{5}$`)
)

// Cities is the fixed list of cities the service operates in.
var Cities = []string{
	"Amsterdam",
	"Rotterdam",
	"The Hague",
	"Utrecht",
	"Eindhoven",
	"Groningen",
	"Tilburg",
	"Almere",
	"Breda",
	"Nijmegen",
}

// Username checks the account username format: 8 to 10 characters,
// starting with a letter or underscore, containing only letters, digits,
// underscores, apostrophes and periods.
func Username(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 8-10 characters, start with a letter or underscore, and contain only letters, digits, underscores, apostrophes and periods")
	}
	return nil
}

// Name checks a first or last name.
func Name(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("name must start with a letter and contain only letters, spaces, apostrophes and hyphens")
	}
	return nil
}

// ZipCode checks the DDDDXX Dutch zip code format.
func ZipCode(zip string) error {
	if !zipCodeRe.MatchString(zip) {
		return fmt.Errorf("zip code must be 4 digits followed by 2 uppercase letters (e.g. 1234AB)")
	}
	return nil
}

// MobilePhone checks the 8-digit local part of a mobile number. The +31-6
// prefix is fixed and not stored.
func MobilePhone(phone string) error {
	if !mobilePhoneRe.MatchString(phone) {
		return fmt.Errorf("mobile phone must be exactly 8 digits (the part after +31-6)")
	}
	return nil
}

// DrivingLicense checks the license number format: two letters and seven
// digits, or one letter and eight digits.
func DrivingLicense(license string) error {
	if !drivingLicenseRe.MatchString(license) {
		return fmt.Errorf("driving license must be 2 letters + 7 digits or 1 letter + 8 digits")
	}
	return nil
}

// Email performs a basic structural check of an email address.
func Email(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// SerialNumber checks a scooter serial: 10 to 17 alphanumeric characters.
func SerialNumber(serial string) error {
	if !serialNumberRe.MatchString(serial) {
		return fmt.Errorf("serial number must be 10-17 alphanumeric characters")
	}
	return nil
}

// Gender accepts "male" and "female".
func Gender(gender string) error {
	switch strings.ToLower(gender) {
	case "male", "female":
		return nil
	}
	return fmt.Errorf("gender must be 'male' or 'female'")
}

// City checks membership of the fixed city list, case-insensitively.
func City(city string) error {
	for _, c := range Cities {
		if strings.EqualFold(c, city) {
			return nil
		}
	}
	return fmt.Errorf("city must be one of: %s", strings.Join(Cities, ", "))
}

// BirthDate checks a DD-MM-YYYY date that is not in the future.
func BirthDate(date string) error {
	t, err := time.Parse("02-01-2006", date)
	if err != nil {
		return fmt.Errorf("birthday must be in DD-MM-YYYY format")
	}
	if t.After(time.Now()) {
		return fmt.Errorf("birthday cannot be in the future")
	}
	return nil
}

// StateOfCharge checks a battery percentage.
func StateOfCharge(soc int) error {
	if soc < 0 || soc > 100 {
		return fmt.Errorf("state of charge must be between 0 and 100")
	}
	return nil
}

// Location checks a "latitude,longitude" pair with 5 decimal places.
func Location(location string) error {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return fmt.Errorf("location must be 'latitude,longitude'")
	}
	for _, p := range parts {
		if !coordRe.MatchString(strings.TrimSpace(p)) {
			return fmt.Errorf("coordinates must have exactly 5 decimal places (e.g. 51.92250,4.47917)")
		}
	}
	return nil
}
