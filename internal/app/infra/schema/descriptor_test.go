package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall/ordercore/common/entity"
	"mall/ordercore/internal/app/pkg/testdb"
)

func TestResolveFullSchema(t *testing.T) {
	db := testdb.Open(t)

	d, err := Resolve(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, Full(), d)
	assert.Empty(t, d.OrderItemOmits())
	assert.Empty(t, d.PaymentOmits())
}

func TestResolveLegacySchema(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, db.Migrator().DropColumn(&entity.OrderItem{}, entity.ColumnOrderItemDistributionPrice))

	d, err := Resolve(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, d.OrderItemDistributionPrice)
	assert.True(t, d.PaymentExpireTime)
	assert.Equal(t, LatestVersion-1, d.Version)
	assert.Equal(t, []string{entity.ColumnOrderItemDistributionPrice}, d.OrderItemOmits())
}

func TestResolveWithoutTables(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, db.Migrator().DropTable(&entity.PaymentRecord{}))

	_, err := Resolve(context.Background(), db)
	assert.Error(t, err)
}

func TestInitCurrentReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, ok := Current()
	assert.False(t, ok)

	Init(Descriptor{Version: 1})
	d, ok := Current()
	require.True(t, ok)
	assert.Equal(t, 1, d.Version)

	Reset()
	_, ok = Current()
	assert.False(t, ok)
}

func TestEnsureResolvesOnce(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	db := testdb.Open(t)

	d, err := Ensure(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, Full(), d)

	// 已安装后不再探测表结构
	require.NoError(t, db.Migrator().DropColumn(&entity.OrderItem{}, entity.ColumnOrderItemDistributionPrice))
	d, err = Ensure(context.Background(), db)
	require.NoError(t, err)
	assert.True(t, d.OrderItemDistributionPrice)

	Reset()
	d, err = Ensure(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, d.OrderItemDistributionPrice)
}
