// Package testdb 提供基于内存 sqlite 的 gorm 连接，仅供测试使用
package testdb

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mall/ordercore/common/entity"
)

// Open 创建独立的内存库并建表，测试结束自动关闭
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 单连接：事务内不得再使用外层 db
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(entity.Models()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
