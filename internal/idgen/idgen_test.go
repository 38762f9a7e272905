package idgen

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"devhub-api/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database shared and
	// serializes concurrent transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Customer{},
		&model.CustomerInteraction{},
		&model.CustomerNote{},
		&model.Lead{},
		&model.Project{},
		&model.Invoice{},
		&model.IDSequence{},
	))
	return db
}

func TestNextEmptyTableStartsAtZero(t *testing.T) {
	db := testDB(t)

	wantPrefixes := map[Kind]string{
		KindTenant:              "TNT",
		KindUser:                "USR",
		KindProject:             "PRJ",
		KindCustomer:            "CUS",
		KindInvoice:             "INV",
		KindLead:                "LED",
		KindCustomerInteraction: "INT",
		KindCustomerNote:        "NOT",
	}

	for kind, prefix := range wantPrefixes {
		err := db.Transaction(func(tx *gorm.DB) error {
			id, err := Next(tx, kind)
			require.NoError(t, err)
			assert.Equal(t, prefix+"-000", id, "kind %s", kind)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestNextSequentialNoGaps(t *testing.T) {
	db := testDB(t)

	const n = 12
	for i := 0; i < n; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			id, err := Next(tx, KindCustomer)
			if err != nil {
				return err
			}
			assert.Equal(t, fmt.Sprintf("CUS-%03d", i), id)
			return tx.Create(&model.Customer{
				SystemID: id,
				TenantID: "TNT-000",
				Company:  "Acme",
			}).Error
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.Customer{}).Count(&count).Error)
	assert.Equal(t, int64(n), count)
}

func TestNextSeedsFromExistingRows(t *testing.T) {
	db := testDB(t)

	// Rows that predate the sequence table, including one with a
	// non-conforming id that must be ignored.
	for _, id := range []string{"CUS-000", "CUS-007", "CUS-3", "legacy"} {
		require.NoError(t, db.Create(&model.Customer{
			SystemID: id,
			TenantID: "TNT-000",
			Company:  "Legacy",
		}).Error)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := Next(tx, KindCustomer)
		require.NoError(t, err)
		assert.Equal(t, "CUS-008", id)
		return nil
	})
	require.NoError(t, err)
}

func TestNextSequencesAreIndependentPerKind(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, want := range []string{"CUS-000", "CUS-001"} {
			id, err := Next(tx, KindCustomer)
			require.NoError(t, err)
			assert.Equal(t, want, id)
		}
		id, err := Next(tx, KindLead)
		require.NoError(t, err)
		assert.Equal(t, "LED-000", id)
		return nil
	})
	require.NoError(t, err)
}

// Two concurrent allocations must never observe the same counter
// value; the sequence row lock serializes them.
func TestNextConcurrentAllocationsNeverCollide(t *testing.T) {
	db := testDB(t)

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				id, err := Next(tx, KindCustomer)
				if err != nil {
					return err
				}
				ids[i] = id
				return tx.Create(&model.Customer{
					SystemID: id,
					TenantID: "TNT-000",
					Company:  "Concurrent",
				}).Error
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, id := range ids {
		require.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNextPast999WidensSuffix(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&model.IDSequence{Kind: string(KindInvoice), Next: 1000}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := Next(tx, KindInvoice)
		require.NoError(t, err)
		assert.Equal(t, "INV-1000", id)
		return nil
	})
	require.NoError(t, err)
}

func TestNextUnknownKind(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := Next(tx, Kind("gadget"))
		return err
	})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		kind Kind
		id   string
		want bool
	}{
		{KindCustomer, "CUS-042", true},
		{KindCustomer, "CUS-000", true},
		{KindCustomer, "CUS-1000", true},
		{KindCustomer, "CUS-42", false},
		{KindCustomer, "cus-042", false},
		{KindCustomer, "CUS042", false},
		{KindCustomer, "CUS-", false},
		{KindCustomer, "CUS-04x", false},
		{KindCustomer, "USR-042", false},
		{KindUser, "USR-000", true},
		{Kind("gadget"), "CUS-042", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Validate(tc.kind, tc.id), "%s / %s", tc.kind, tc.id)
	}
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "FOUNDER", DisplayID("USR-000", true, model.RoleFounder))
	// Founder flag without the reserved id does not rename.
	assert.Equal(t, "USR-001", DisplayID("USR-001", true, ""))
	assert.Equal(t, "BUSINESS_OWNER", DisplayID("USR-002", false, model.RoleBusinessOwner))
	assert.Equal(t, "USR-003", DisplayID("USR-003", false, model.RoleManager))
	assert.Equal(t, "CUS-010", DisplayID("CUS-010", false, ""))
}

func TestPrefix(t *testing.T) {
	p, err := Prefix(KindTenant)
	require.NoError(t, err)
	assert.Equal(t, "TNT", p)

	_, err = Prefix(Kind("gadget"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
