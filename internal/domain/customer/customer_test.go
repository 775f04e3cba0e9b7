package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bank-management-core/internal/domain/account"
)

func TestNewPersonal(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, KindPersonal, c.Kind())
	assert.Equal(t, "Arabang", c.FirstName())
	assert.Equal(t, "Mothofela", c.LastName())
	assert.Equal(t, "Kopong", c.Address())
	assert.Equal(t, "ID-9001", c.NationalID())
	assert.Empty(t, c.CompanyName())
}

func TestNewCompany(t *testing.T) {
	c := NewCompany("Lerato", "Kgosi", "Gaborone", "First Minds Ltd", "Plot 123")

	assert.Equal(t, KindCompany, c.Kind())
	assert.Equal(t, "First Minds Ltd", c.CompanyName())
	assert.Equal(t, "Plot 123", c.CompanyAddress())
	assert.Empty(t, c.NationalID())
}

func TestAddAccount(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")

	acc, err := account.NewSavings(c.ID(), "Kopong Branch", 1000)
	require.NoError(t, err)

	assert.True(t, c.AddAccount(acc))
	assert.Len(t, c.Accounts(), 1)

	t.Run("SameAccountRejected", func(t *testing.T) {
		assert.False(t, c.AddAccount(acc))
		assert.Len(t, c.Accounts(), 1)
	})

	t.Run("DistinctValueWithSameNumberRejected", func(t *testing.T) {
		duplicate, err := account.Restore(account.StoredState{
			Number:     acc.Number(),
			CustomerID: c.ID(),
			Type:       account.TypeSavings,
			Balance:    999,
		})
		require.NoError(t, err)

		assert.False(t, c.AddAccount(duplicate))
		assert.Len(t, c.Accounts(), 1)
	})

	t.Run("NilRejected", func(t *testing.T) {
		assert.False(t, c.AddAccount(nil))
	})
}

func TestAccountLookup(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")
	acc, err := account.NewInvestment(c.ID(), "Kopong Branch", 50000)
	require.NoError(t, err)
	require.True(t, c.AddAccount(acc))

	found, ok := c.Account(acc.Number())
	require.True(t, ok)
	assert.Equal(t, acc.Number(), found.Number())

	_, ok = c.Account("IA-MISSING1")
	assert.False(t, ok)
}

func TestAccountsReturnsCopy(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")
	acc, err := account.NewSavings(c.ID(), "Kopong Branch", 1000)
	require.NoError(t, err)
	require.True(t, c.AddAccount(acc))

	accounts := c.Accounts()
	accounts[0] = nil

	assert.NotNil(t, c.Accounts()[0])
}

func TestLinkedAccounts(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")

	assert.True(t, c.AddLinkedAccount("SA-AAAA1111"))
	assert.False(t, c.AddLinkedAccount("SA-AAAA1111"), "duplicate ignored")
	assert.False(t, c.AddLinkedAccount("  "), "blank rejected")
	assert.Equal(t, []string{"SA-AAAA1111"}, c.LinkedAccounts())

	c.RemoveLinkedAccount("SA-AAAA1111")
	assert.Empty(t, c.LinkedAccounts())

	c.RemoveLinkedAccount("SA-GONE0000") // no-op
}

func TestUpdateProfile(t *testing.T) {
	c := NewPersonal("Arabang", "Mothofela", "Kopong", "ID-9001")
	c.UpdateProfile("Lerato", "Kgosi", "Gaborone")

	assert.Equal(t, "Lerato", c.FirstName())
	assert.Equal(t, "Kgosi", c.LastName())
	assert.Equal(t, "Gaborone", c.Address())
	assert.Equal(t, "ID-9001", c.NationalID(), "variant data untouched")
}

func TestCredentials(t *testing.T) {
	cred := NewCredentials("CUST-1", "arabang", "s3cret", "arabang@example.com")

	assert.True(t, cred.Active)
	assert.True(t, cred.VerifyPassword("s3cret"))
	assert.False(t, cred.VerifyPassword("wrong"))
}
