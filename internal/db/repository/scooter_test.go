package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

func newScooterRepo(t *testing.T) *ScooterRepository {
	t.Helper()
	database, _ := newTestDB(t)
	return NewScooterRepository(database)
}

func testScooter(serial string) *models.Scooter {
	return &models.Scooter{
		SerialNumber:    serial,
		Brand:           "Segway",
		Model:           "Ninebot Max",
		TopSpeed:        25,
		BatteryCapacity: 551,
		StateOfCharge:   87,
		TargetRangeSoC:  "20-80",
		Location:        "51.92250,4.47917",
		Mileage:         1204.5,
	}
}

func TestScooterCreateAndGet(t *testing.T) {
	repo := newScooterRepo(t)

	require.NoError(t, repo.Create(testScooter("SN1234567890")))

	got, err := repo.GetBySerial("SN1234567890")
	require.NoError(t, err)
	assert.Equal(t, "Segway", got.Brand)
	assert.Equal(t, 87, got.StateOfCharge)
	assert.False(t, got.OutOfService)
	assert.Nil(t, got.LastMaintenance)
	assert.False(t, got.InServiceSince.IsZero())
}

func TestScooterDuplicateSerial(t *testing.T) {
	repo := newScooterRepo(t)

	require.NoError(t, repo.Create(testScooter("SN1234567890")))
	assert.ErrorIs(t, repo.Create(testScooter("SN1234567890")), ErrDuplicate)
}

func TestScooterListOrdering(t *testing.T) {
	repo := newScooterRepo(t)

	zeb := testScooter("ZZ1234567890")
	zeb.Brand = "Zebra"
	require.NoError(t, repo.Create(zeb))
	require.NoError(t, repo.Create(testScooter("SN1234567890")))

	scooters, err := repo.List()
	require.NoError(t, err)
	require.Len(t, scooters, 2)
	assert.Equal(t, "Segway", scooters[0].Brand)
	assert.Equal(t, "Zebra", scooters[1].Brand)
}

func TestScooterSearch(t *testing.T) {
	repo := newScooterRepo(t)

	require.NoError(t, repo.Create(testScooter("SN1234567890")))
	other := testScooter("XO9876543210")
	other.Brand = "NIU"
	other.Model = "KQi3"
	require.NoError(t, repo.Create(other))

	byBrand, err := repo.Search("niu")
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "XO9876543210", byBrand[0].SerialNumber)

	bySerial, err := repo.Search("1234567890")
	require.NoError(t, err)
	require.Len(t, bySerial, 1)
	assert.Equal(t, "SN1234567890", bySerial[0].SerialNumber)
}

func TestScooterUpdateFieldsEngineerWhitelist(t *testing.T) {
	repo := newScooterRepo(t)
	require.NoError(t, repo.Create(testScooter("SN1234567890")))

	maintained := time.Now().Truncate(time.Second)
	err := repo.UpdateFields("SN1234567890", models.RoleServiceEngineer, map[string]interface{}{
		"state_of_charge":  55,
		"location":         "51.91700,4.48400",
		"out_of_service":   1,
		"mileage":          1300.0,
		"last_maintenance": maintained,
		// Outside the engineer whitelist, must be ignored.
		"brand":     "Hacked",
		"top_speed": 99,
	})
	require.NoError(t, err)

	got, err := repo.GetBySerial("SN1234567890")
	require.NoError(t, err)
	assert.Equal(t, 55, got.StateOfCharge)
	assert.Equal(t, "51.91700,4.48400", got.Location)
	assert.True(t, got.OutOfService)
	assert.Equal(t, 1300.0, got.Mileage)
	require.NotNil(t, got.LastMaintenance)
	assert.Equal(t, "Segway", got.Brand)
	assert.Equal(t, 25, got.TopSpeed)
}

func TestScooterUpdateFieldsAdmin(t *testing.T) {
	repo := newScooterRepo(t)
	require.NoError(t, repo.Create(testScooter("SN1234567890")))

	err := repo.UpdateFields("SN1234567890", models.RoleSystemAdmin, map[string]interface{}{
		"brand":     "NIU",
		"top_speed": 30,
	})
	require.NoError(t, err)

	got, err := repo.GetBySerial("SN1234567890")
	require.NoError(t, err)
	assert.Equal(t, "NIU", got.Brand)
	assert.Equal(t, 30, got.TopSpeed)
}

func TestScooterUpdateFieldsNothingAllowed(t *testing.T) {
	repo := newScooterRepo(t)
	require.NoError(t, repo.Create(testScooter("SN1234567890")))

	err := repo.UpdateFields("SN1234567890", models.RoleServiceEngineer, map[string]interface{}{
		"brand": "Hacked",
	})
	assert.Error(t, err)

	got, err := repo.GetBySerial("SN1234567890")
	require.NoError(t, err)
	assert.Equal(t, "Segway", got.Brand)
}

func TestScooterUpdateFieldsNotFound(t *testing.T) {
	repo := newScooterRepo(t)

	err := repo.UpdateFields("NOPE12345678", models.RoleSystemAdmin, map[string]interface{}{
		"state_of_charge": 50,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScooterDelete(t *testing.T) {
	repo := newScooterRepo(t)

	require.NoError(t, repo.Create(testScooter("SN1234567890")))
	require.NoError(t, repo.Delete("SN1234567890"))

	_, err := repo.GetBySerial("SN1234567890")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete("SN1234567890"), ErrNotFound)
}
