package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsername(t *testing.T) {
	valid := []string{"sysadmin1", "engineer_", "a.b.c.d.e", "_username", "user'name"}
	for _, u := range valid {
		assert.NoError(t, Username(u), u)
	}

	invalid := []string{
		"short",          // under 8
		"waytoolongname", // over 10
		"1sysadmin",      // starts with digit
		".sysadmin",      // starts with period
		"sys admin",      // space
		"sysadmin!",      // forbidden character
		"",
	}
	for _, u := range invalid {
		assert.Error(t, Username(u), u)
	}
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("Sanne"))
	assert.NoError(t, Name("de Vries"))
	assert.NoError(t, Name("O'Brien"))
	assert.NoError(t, Name("Anne-Marie"))

	assert.Error(t, Name(""))
	assert.Error(t, Name("4ever"))
	assert.Error(t, Name("name!"))
}

func TestZipCode(t *testing.T) {
	assert.NoError(t, ZipCode("3011AD"))
	assert.Error(t, ZipCode("3011ad"))
	assert.Error(t, ZipCode("301AD"))
	assert.Error(t, ZipCode("30111AD"))
	assert.Error(t, ZipCode("AB1234"))
}

func TestMobilePhone(t *testing.T) {
	assert.NoError(t, MobilePhone("12345678"))
	assert.Error(t, MobilePhone("1234567"))
	assert.Error(t, MobilePhone("123456789"))
	assert.Error(t, MobilePhone("1234567a"))
	assert.Error(t, MobilePhone("+31612345678"))
}

func TestDrivingLicense(t *testing.T) {
	assert.NoError(t, DrivingLicense("AB1234567"))
	assert.NoError(t, DrivingLicense("A12345678"))
	assert.Error(t, DrivingLicense("ABC123456"))
	assert.Error(t, DrivingLicense("AB123456"))
	assert.Error(t, DrivingLicense("123456789"))
	assert.Error(t, DrivingLicense("ab1234567"))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("sanne.devries@example.com"))
	assert.NoError(t, Email("a+b@sub.domain.nl"))
	assert.Error(t, Email("no-at-sign"))
	assert.Error(t, Email("missing@tld"))
	assert.Error(t, Email("@example.com"))
}

func TestSerialNumber(t *testing.T) {
	assert.NoError(t, SerialNumber("SN12345678"))
	assert.NoError(t, SerialNumber("ABCDEFGHIJ1234567"))
	assert.Error(t, SerialNumber("SHORT123"))
	assert.Error(t, SerialNumber("ABCDEFGHIJ12345678"))
	assert.Error(t, SerialNumber("HAS SPACES12"))
}

func TestGender(t *testing.T) {
	assert.NoError(t, Gender("male"))
	assert.NoError(t, Gender("Female"))
	assert.Error(t, Gender("other"))
	assert.Error(t, Gender(""))
}

func TestCity(t *testing.T) {
	assert.NoError(t, City("Rotterdam"))
	assert.NoError(t, City("rotterdam"))
	assert.Error(t, City("Antwerp"))
	assert.Error(t, City(""))
}

func TestBirthDate(t *testing.T) {
	assert.NoError(t, BirthDate("15-03-1992"))
	assert.Error(t, BirthDate("1992-03-15"))
	assert.Error(t, BirthDate("32-01-1990"))
	assert.Error(t, BirthDate("15-03-2999"))
	assert.Error(t, BirthDate(""))
}

func TestStateOfCharge(t *testing.T) {
	assert.NoError(t, StateOfCharge(0))
	assert.NoError(t, StateOfCharge(100))
	assert.Error(t, StateOfCharge(-1))
	assert.Error(t, StateOfCharge(101))
}

func TestLocation(t *testing.T) {
	assert.NoError(t, Location("51.92250,4.47917"))
	assert.NoError(t, Location("-33.86882,151.20930"))
	assert.Error(t, Location("51.92250"))
	assert.Error(t, Location("51.9225,4.47917"))
	assert.Error(t, Location("51.92250,4.47917,0"))
	assert.Error(t, Location("north,south"))
}
